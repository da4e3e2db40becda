package app

import (
	"fmt"
	"log/slog"

	"delivery/internal/config"
	"delivery/internal/events"
)

// NewEventPublisher builds the publisher selected by cfg.Backend.
func NewEventPublisher(cfg config.EventsConfig, logger *slog.Logger) (events.Publisher, error) {
	switch cfg.Backend {
	case "kafka":
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case "rabbitmq":
		p, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "", "none":
		return events.NewLogPublisher(logger), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
