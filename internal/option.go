package internal

import (
	"log/slog"

	"github.com/starford/daybook/internal/events"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	logger *slog.Logger
	broker *events.Broker
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the JSON logger Run builds from the configuration.
func WithLogger(logger *slog.Logger) Option {
	return func(a *application) {
		a.logger = logger
	}
}

// WithBroker publishes a JournalReindexed event on broker whenever a watched
// journal is re-read.
func WithBroker(b *events.Broker) Option {
	return func(a *application) {
		a.broker = b
	}
}
