package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Initialize builds a production zap logger at level and installs it as
// the global logger returned by zap.L().
func Initialize(level string) error {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("error while setting atomic level to zap logger: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = atomic

	log, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("error while building zap logger: %w", err)
	}

	zap.ReplaceGlobals(log)

	return nil
}
