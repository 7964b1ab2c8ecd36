package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

const (
	JSON = "json"
	Text = "text"
	Tint = "tint"

	DefaultType  = Tint
	DefaultLevel = "info"
)

// Initialize installs the process-wide slog handler. Empty arguments
// select the defaults.
func Initialize(loggingType, logLevelName string) error {
	return InitializeWithOutput(os.Stderr, loggingType, logLevelName)
}

// InitializeWithOutput is Initialize with an explicit sink, for tests.
func InitializeWithOutput(out io.Writer, loggingType, logLevelName string) error {
	if loggingType == "" {
		loggingType = DefaultType
	}
	if logLevelName == "" {
		logLevelName = DefaultLevel
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(logLevelName)); err != nil {
		return fmt.Errorf("could not parse log level: %v", err)
	}

	logHandlerOptions := slog.HandlerOptions{
		Level: logLevel,
	}

	var logHandler slog.Handler
	switch loggingType {
	case JSON:
		logHandler = slog.NewJSONHandler(out, &logHandlerOptions)
	case Text:
		logHandler = slog.NewTextHandler(out, &logHandlerOptions)
	case Tint:
		logHandler = tint.NewHandler(out, &tint.Options{
			Level: logHandlerOptions.Level,
		})
	default:
		return fmt.Errorf("unknown logging type: %s", loggingType)
	}

	slog.SetDefault(slog.New(logHandler))
	return nil
}
