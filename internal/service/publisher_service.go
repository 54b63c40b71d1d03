package service

import (
	"context"
	"encoding/json"
	"fmt"

	"pdf-chat-be/internal/model"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishSnapshot(ctx context.Context, snap *model.SessionSnapshot) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

// PublishSnapshot enqueues a full-state snapshot on the persistence
// topic. The go-channel pub/sub delivers messages in publish order, which
// is what keeps persisted writes ordered like the mutations that caused
// them.
func (ps *publisherService) PublishSnapshot(_ context.Context, snap *model.SessionSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}
