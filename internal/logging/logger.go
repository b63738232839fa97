package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"

	"travelchat/internal/config"
)

const timeFormat = "15:04:05"

// New builds the arbor logger described by cfg. Console output is used when
// no output is configured.
func New(cfg config.LoggingConfig) arbor.ILogger {
	logger := arbor.NewLogger()

	hasFile, hasConsole := false, false
	for _, output := range cfg.Output {
		switch output {
		case "file":
			hasFile = true
		case "console", "stdout":
			hasConsole = true
		}
	}
	if !hasFile && !hasConsole {
		hasConsole = true
	}

	if hasFile {
		logFile := cfg.File
		if logFile == "" {
			logFile = filepath.Join("logs", "travelchat.log")
		}
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
		} else {
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   logFile,
				TimeFormat: timeFormat,
				MaxSize:    50 * 1024 * 1024,
				MaxBackups: 3,
				TextOutput: true,
			})
		}
	}

	if hasConsole {
		logger = logger.WithConsoleWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeConsole,
			TimeFormat: timeFormat,
			TextOutput: true,
		})
	}

	return logger.WithLevelFromString(cfg.Level)
}
