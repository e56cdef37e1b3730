package logger

import (
	"go.uber.org/zap"

	"taskmanager/config"
)

// New returns a development logger for local runs and a JSON production
// logger everywhere else.
func New(env string) (*zap.Logger, error) {
	if env == config.EnvLocal {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
