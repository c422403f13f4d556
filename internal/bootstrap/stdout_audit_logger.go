package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries to the process log. A durable sink
// can replace it behind the same interface.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info(entry.Action,
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
