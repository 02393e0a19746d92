package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer logs messages instead of sending them. Used when no SMTP host is
// configured, which is the development default.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a logging mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (l *LogMailer) Send(ctx context.Context, m Mail) error {
	l.logger.Info("mail dispatch (log only)",
		zap.String("to", m.To),
		zap.String("subject", m.Kind.subject()),
		zap.String("code", m.Code),
		zap.String("reset_link", m.ResetLink),
	)
	return nil
}
