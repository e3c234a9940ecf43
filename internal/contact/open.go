package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Kinds of submitter that Open can build.
const (
	KindSimulated = "simulated"
	KindHTTP      = "http"
	KindMailgun   = "mailgun"
	KindPubSub    = "pubsub"
)

// Settings selects and configures the submission collaborator.
type Settings struct {
	Kind           string
	SimulatedDelay time.Duration
	HTTPEndpoint   string
	Mailgun        MailgunConfig
	PubSubProject  string
	PubSubTopic    string
	// PubSubOptions are passed to the Pub/Sub client, e.g. an emulator endpoint.
	PubSubOptions []option.ClientOption
}

// Open builds the submitter named by s.Kind. The returned close func releases any
// client the submitter holds and is never nil.
func Open(ctx context.Context, s Settings) (Submitter, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(s.Kind)) {
	case "", KindSimulated:
		return NewSimulated(s.SimulatedDelay), noop, nil
	case KindHTTP:
		return NewHTTPSubmitter(s.HTTPEndpoint), noop, nil
	case KindMailgun:
		sub, err := NewMailgunSubmitter(s.Mailgun)
		if err != nil {
			return nil, noop, err
		}
		return sub, noop, nil
	case KindPubSub:
		if s.PubSubProject == "" || s.PubSubTopic == "" {
			return nil, noop, fmt.Errorf("pubsub submitter: project and topic are required")
		}
		client, err := pubsub.NewClient(ctx, s.PubSubProject, s.PubSubOptions...)
		if err != nil {
			return nil, noop, fmt.Errorf("pubsub client: %w", err)
		}
		topic := client.Topic(s.PubSubTopic)
		sub, err := NewPubSubSubmitter(topic)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return sub, func() error {
			topic.Stop()
			return client.Close()
		}, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnsupportedSubmitter, s.Kind)
	}
}
