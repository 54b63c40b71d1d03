package service

import (
	"context"

	"pdf-chat-be/internal/pkg/logger"
	"pdf-chat-be/internal/repository/kv"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the single writer of the persisted session entry.
// It drains the snapshot topic sequentially, so the store always holds
// the result of the latest mutation that was issued before it.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	store     kv.Store
	storeKey  string
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	store kv.Store,
	storeKey string,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		store:     store,
		storeKey:  storeKey,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			if err := cs.store.Set(ctx, cs.storeKey, msg.Payload); err != nil {
				// A failed write loses at most the gap until the next
				// mutation: every snapshot is the full state.
				cs.log.Error("ConsumerService", "Failed to persist session snapshot", map[string]interface{}{"error": err.Error()})
			}
			msg.Ack()
		}
	}()

	return nil
}
