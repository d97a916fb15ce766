package notification

import (
	"context"

	"go.uber.org/zap"
)

const (
	// KindUserCreated announces a completed registration.
	KindUserCreated = "user.created"
	// KindTransferCompleted announces a committed wallet transfer.
	KindTransferCompleted = "transfer.completed"
)

// Message describes a notification payload.
type Message struct {
	Kind   string
	UserID string
	Body   string
}

// Notifier delivers events to downstream systems. Implementations are
// invoked strictly after the originating atomic unit has committed; a
// delivery failure never rolls back committed state.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the
// structured logger.
type LoggerNotifier struct {
	logger *zap.Logger
}

func NewLoggerNotifier(logger *zap.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		zap.String("kind", message.Kind),
		zap.String("user_id", message.UserID),
		zap.String("body", message.Body),
	)
	return nil
}
