// Package logger provides a thin, opinionated wrapper around zap so every
// service binary constructs its logger the same way.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a *zap.SugaredLogger that writes structured JSON to
// stdout, tagged with the given service name. traceid is expected to be
// supplied per log line by callers that have one; it is not injected here.
func New(service string) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.StacktraceKey = ""
	config.InitialFields = map[string]any{
		"service": service,
	}

	log, err := config.Build(zap.WithCaller(false))
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}
