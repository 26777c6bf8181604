package logger

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextKey is the gin context key holding the request-scoped logger.
const ContextKey = "logger"

// New builds the process logger. Output goes to stdout in JSON.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// FromContext returns the request-scoped logger set by the request ID
// middleware, or fallback when none is present.
func FromContext(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if c != nil {
		if l, ok := c.Get(ContextKey); ok {
			if zl, ok := l.(*zap.Logger); ok {
				return zl
			}
		}
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}
