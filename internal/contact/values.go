package contact

import (
	"strings"
)

// Field names one input of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// ParseField resolves a raw field name.
func ParseField(raw string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Fields {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Values holds the text of every field.
type Values struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Get returns the value of f.
func (v Values) Get(f Field) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldEmail:
		return v.Email
	case FieldSubject:
		return v.Subject
	case FieldMessage:
		return v.Message
	}
	return ""
}

// With returns a copy of v with f set to value.
func (v Values) With(f Field, value string) Values {
	switch f {
	case FieldName:
		v.Name = value
	case FieldEmail:
		v.Email = value
	case FieldSubject:
		v.Subject = value
	case FieldMessage:
		v.Message = value
	}
	return v
}

// Trimmed returns v with surrounding whitespace removed from every field.
func (v Values) Trimmed() Values {
	return Values{
		Name:    strings.TrimSpace(v.Name),
		Email:   strings.TrimSpace(v.Email),
		Subject: strings.TrimSpace(v.Subject),
		Message: strings.TrimSpace(v.Message),
	}
}

// Errors maps a field to its validation message.
type Errors map[Field]string

// Has reports whether f has an error.
func (e Errors) Has(f Field) bool {
	return e[f] != ""
}

// Strings converts the map to string keys for JSON and templates.
func (e Errors) Strings() map[string]string {
	out := make(map[string]string, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}

// Validate checks every field for presence and the email for an @. It returns nil
// when v may be submitted.
func Validate(v Values) Errors {
	v = v.Trimmed()
	errs := Errors{}
	if v.Name == "" {
		errs[FieldName] = "Name is required"
	}
	if v.Email == "" {
		errs[FieldEmail] = "Email is required"
	} else if !strings.Contains(v.Email, "@") {
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if v.Subject == "" {
		errs[FieldSubject] = "Subject is required"
	}
	if v.Message == "" {
		errs[FieldMessage] = "Message is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
