package logger

import (
	"go.uber.org/zap"

	"github.com/caloriebot/backend/config"
)

var log *zap.Logger = zap.NewNop()

// Init sets up the global logger. Production gets JSON output,
// everything else the human-readable development config.
func Init() error {
	var (
		l   *zap.Logger
		err error
	)
	if config.IsProduction() {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	log = l
	return nil
}

// L returns the global logger.
func L() *zap.Logger {
	return log
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	_ = log.Sync()
}
