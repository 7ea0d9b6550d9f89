package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkurenkov/eventease/config"
	"github.com/dkurenkov/eventease/internal/email"
	"github.com/dkurenkov/eventease/internal/kafka"
	"github.com/dkurenkov/eventease/internal/relay"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var n relay.Notification
		if err := json.Unmarshal(msg.Value, &n); err != nil {
			log.Printf("decode notification: %v", err)
			return nil
		}
		if err := sender.Send(ctx, n); err != nil {
			log.Printf("deliver notification %s: %v", n.Type, err)
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Println("worker shut down")
}
