package content

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Typographer, extension.Linkify),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	blockPolicy = newBlockPolicy()
)

func newBlockPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "strong", "em")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Markdown is a catalog field written in markdown. It is rendered and sanitised once,
// when the catalog is decoded.
type Markdown struct {
	Source string
	HTML   template.HTML
}

func (m *Markdown) UnmarshalYAML(node *yaml.Node) error {
	var src string
	if err := node.Decode(&src); err != nil {
		return err
	}
	rendered, err := RenderMarkdown(src)
	if err != nil {
		return err
	}
	m.Source = src
	m.HTML = rendered
	return nil
}

// Empty reports whether there is nothing to render.
func (m Markdown) Empty() bool { return strings.TrimSpace(m.Source) == "" }

// RenderMarkdown converts src to sanitised HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// sanitised by blockPolicy
	return template.HTML(strings.TrimSpace(blockPolicy.Sanitize(buf.String()))), nil
}
