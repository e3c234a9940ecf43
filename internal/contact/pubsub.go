package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
)

// PubSubSubmitter publishes submissions to a Pub/Sub topic for a downstream CRM worker.
type PubSubSubmitter struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSubSubmitter constructs a topic backed submitter.
func NewPubSubSubmitter(topic *pubsub.Topic) (*PubSubSubmitter, error) {
	if topic == nil {
		return nil, errors.New("pubsub submitter: topic is required")
	}
	return &PubSubSubmitter{topic: topic, marshal: json.Marshal}, nil
}

func (p *PubSubSubmitter) Submit(ctx context.Context, s Submission) (Receipt, error) {
	if p == nil || p.topic == nil {
		return Receipt{}, errors.New("pubsub submitter: not initialised")
	}
	data, err := p.marshal(s)
	if err != nil {
		return Receipt{}, fmt.Errorf("marshal submission: %w", err)
	}

	attrs := map[string]string{"kind": "contact"}
	setAttr(attrs, "submissionId", s.ID)
	setAttr(attrs, "idempotencyKey", s.ID)
	if at := strings.LastIndex(s.Values.Email, "@"); at >= 0 {
		setAttr(attrs, "emailDomain", strings.ToLower(s.Values.Email[at+1:]))
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	id, err := result.Get(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("publish submission: %w", err)
	}
	return Receipt{ID: s.ID, Via: "pubsub", Ref: id}, nil
}

func setAttr(attrs map[string]string, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
