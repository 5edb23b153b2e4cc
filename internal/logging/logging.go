package logging

import (
	"go.uber.org/zap"
)

// New builds the application logger. Output goes to the given file; the
// terminal belongs to the TUI, so stderr is only used when no file is set.
func New(file string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if file != "" {
		cfg.OutputPaths = []string{file}
		cfg.ErrorOutputPaths = []string{file}
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}
