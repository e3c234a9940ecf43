package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunSendTimeout = 30 * time.Second

// MailgunConfig configures email delivery of contact messages.
type MailgunConfig struct {
	Domain  string
	APIKey  string
	APIBase string
	From    string
	To      string
}

// MailgunSubmitter emails each submission to the sales inbox through Mailgun.
type MailgunSubmitter struct {
	cfg    MailgunConfig
	client *mailgun.MailgunImpl
}

// NewMailgunSubmitter validates cfg and builds the Mailgun client.
func NewMailgunSubmitter(cfg MailgunConfig) (*MailgunSubmitter, error) {
	if strings.TrimSpace(cfg.Domain) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("mailgun submitter: domain and api key are required")
	}
	if strings.TrimSpace(cfg.To) == "" {
		return nil, errors.New("mailgun submitter: recipient is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		cfg.From = "SNIX Website <no-reply@" + cfg.Domain + ">"
	}
	client := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		client.SetAPIBase(cfg.APIBase)
	}
	return &MailgunSubmitter{cfg: cfg, client: client}, nil
}

func (m *MailgunSubmitter) Submit(ctx context.Context, s Submission) (Receipt, error) {
	subject := fmt.Sprintf("[snix.ai] %s", s.Values.Subject)
	body := fmt.Sprintf("From: %s <%s>\nSent: %s\nReference: %s\n\n%s\n",
		s.Values.Name, s.Values.Email, s.SubmittedAt.Format(time.RFC1123), s.ID, s.Values.Message)

	message := m.client.NewMessage(m.cfg.From, subject, body, m.cfg.To)
	message.SetReplyTo(fmt.Sprintf("%s <%s>", s.Values.Name, s.Values.Email))
	message.AddHeader("X-Snix-Submission", s.ID)

	sendCtx, cancel := context.WithTimeout(ctx, mailgunSendTimeout)
	defer cancel()

	_, id, err := m.client.Send(sendCtx, message)
	if err != nil {
		return Receipt{}, fmt.Errorf("mailgun send: %w", err)
	}
	return Receipt{ID: s.ID, Via: "mailgun", Ref: id}, nil
}
