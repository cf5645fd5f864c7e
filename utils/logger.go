package utils

import "go.uber.org/zap"

// Log is the process-wide logger. It starts as a no-op so packages can log
// before main wires the real one, and tests stay quiet by default.
var Log = zap.NewNop()

// InitLogger builds the global logger. Development mode gets human-readable
// console output; production gets JSON.
func InitLogger(development bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	Log = logger
	return logger, nil
}
