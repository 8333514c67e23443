package events

import (
	"fmt"
	"log/slog"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
)

// SlogSink logs every emitted event as a structured line. It is the
// default observer wired by the service binary.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink writing to logger; nil falls back to
// slog.Default.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Emit logs the event kind and payload.
func (s *SlogSink) Emit(e domain.Event) {
	s.logger.Info("registry event",
		slog.String("kind", string(e.Kind())),
		slog.String("payload", fmt.Sprintf("%+v", e)),
	)
}

// Fanout forwards every event to each sink in order.
type Fanout []port.EventSink

// Emit forwards the event to all sinks.
func (f Fanout) Emit(e domain.Event) {
	for _, sink := range f {
		sink.Emit(e)
	}
}
