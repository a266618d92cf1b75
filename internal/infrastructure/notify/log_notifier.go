package notify

import (
	"context"

	"github.com/doeshing/ronde/internal/ports"
)

// LogNotifier records notifications in the log instead of sending them.
// It is used when no transport is configured.
type LogNotifier struct {
	logger ports.Logger
}

func NewLogNotifier(logger ports.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Name() string {
	return "log"
}

func (l *LogNotifier) Notify(_ context.Context, n ports.Notification) error {
	l.logger.Info(n.Title, map[string]interface{}{
		"probe":      n.Probe,
		"transition": string(n.Transition),
		"message":    n.Message,
	})
	return nil
}

var _ ports.Notifier = (*LogNotifier)(nil)
