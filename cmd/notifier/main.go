package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dvbwitso/kire-studio/internal/notifier"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("notifier starting...")

	brokers := getEnv("KAFKA_BROKERS", "localhost:9092")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := notifier.NewConsumer(notifier.LogNotifier{}, strings.Split(brokers, ",")...)
	defer consumer.Close()

	consumer.Run(ctx)

	log.Println("notifier exited")
}
