// README: Notification sink interface and the log-only development sink.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sink delivers an out-of-band message to a recipient. Failures are for the
// caller to log; they never roll back persisted state.
type Sink interface {
	Send(ctx context.Context, to, body string) error
}

// LogSink writes outbound messages to the log instead of a real channel.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(_ context.Context, to, body string) error {
	s.log.Info("outbound message",
		zap.String("to", to),
		zap.String("body", body),
	)
	return nil
}
