// Package worker consumes checkout events and drives their reconciliation.
package worker

import (
	"context"
	"time"

	"cumbrecita/config"
	"cumbrecita/infras/kafka"
	checkoutModel "cumbrecita/internal/domains/checkout/model"
	"cumbrecita/internal/domains/reconciliation/service"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const handleTimeout = time.Minute

type Worker struct {
	config  *config.Config
	kafka   kafka.Client
	service service.Reconciliation
}

func New(cfg *config.Config, kafkaClient kafka.Client, svc service.Reconciliation) *Worker {
	return &Worker{
		config:  cfg,
		kafka:   kafkaClient,
		service: svc,
	}
}

// Run blocks consuming the checkout events topic until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	topic := w.config.Kafka.Topics.CheckoutEvents

	log.Info().Str("topic", topic).Msg("Reconciliation worker started.")

	w.kafka.Consume(ctx, w.config.Kafka.ConsumerGroup, topic, w.handleMessage)
}

func (w *Worker) handleMessage(msg kafkaGo.Message) {
	decoded, err := kafka.DecodeKafkaMessage[checkoutModel.CheckoutEvent](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("Dropping undecodable checkout event.")

		return
	}

	event, ok := decoded.Value.(checkoutModel.CheckoutEvent)
	if !ok {
		log.Error().Str("key", string(msg.Key)).Msg("Dropping checkout event with unexpected payload type.")

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := w.service.HandleEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("kind", event.Kind).Str("pagoId", event.PaymentID).
			Msg("Failed to handle checkout event.")
	}
}
