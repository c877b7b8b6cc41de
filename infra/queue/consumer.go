package queue

import (
	"context"
	"log"

	"github.com/chatterly/chat_service/internal/interfaces"
	"github.com/segmentio/kafka-go"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
}

func NewKafkaConsumer(broker, topic, groupID string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, //10KB
		MaxBytes: 10e6, //10MB
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "Chat Service",
	}
}

func (kc *KafkaConsumer) Listen(ctx context.Context) {
	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Error on reading message: %s\n", err)
			continue
		}

		if err := kc.Handler.HandleMessage(msg.Key, msg.Value); err != nil {
			log.Printf("Error on processing message on handler: %s\n", err)
		}
	}
}
