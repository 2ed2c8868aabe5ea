package notify

import (
	"context"

	"github.com/goliatone/go-tableview/pkg/types"
)

// LogNotifier writes translated notifications to a logger. It is the
// default sink for hosts without a toast surface.
type LogNotifier struct {
	logger     types.Logger
	translator types.Translator
}

// NewLogNotifier builds a LogNotifier. A nil translator logs raw keys.
func NewLogNotifier(logger types.Logger, translator types.Translator) *LogNotifier {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &LogNotifier{logger: logger, translator: translator}
}

// Notify implements types.Notifier.
func (l *LogNotifier) Notify(_ context.Context, n types.Notification) {
	msg := n.Key
	if l.translator != nil {
		msg = l.translator.Translate(n.Key, n.Params)
	}
	fields := []any{"key", n.Key, "level", string(n.Level)}
	switch n.Level {
	case types.NotificationError:
		l.logger.Error(msg, nil, fields...)
	case types.NotificationWarning:
		l.logger.Warn(msg, fields...)
	default:
		l.logger.Info(msg, fields...)
	}
}

var _ types.Notifier = (*LogNotifier)(nil)
