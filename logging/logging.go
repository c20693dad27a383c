package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	DebugLogger zerolog.Logger
	InfoLogger  zerolog.Logger
	ErrorLogger zerolog.Logger
)

// Base is the root logger; component loggers are derived from it.
var Base = zerolog.Nop()

// DefaultLogPath is where logs go when no path is configured.
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "kate", "kate.log"), nil
}

func Init(logLevel string, logFilePath string) error {
	if logFilePath == "" {
		p, err := DefaultLogPath()
		if err != nil {
			return err
		}
		logFilePath = p
	}

	// Expand the ~ to the user's home directory
	if strings.HasPrefix(logFilePath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		logFilePath = filepath.Join(homeDir, logFilePath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return err
	}

	rotate := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    2,  // megabytes
		MaxBackups: 3,  // number of files
		MaxAge:     60, // days
		Compress:   false,
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	Base = zerolog.New(zerolog.MultiLevelWriter(rotate)).With().Timestamp().Str("app", "kate").Logger()
	log.Logger = Base
	DebugLogger = Base.Level(zerolog.DebugLevel)
	InfoLogger = Base.Level(zerolog.InfoLevel)
	ErrorLogger = Base.Level(zerolog.ErrorLevel)

	if level == zerolog.DebugLevel {
		DebugLogger.Debug().Str("path", logFilePath).Msg("logging initialised")
	}

	return nil
}

// Component returns a child of Base tagged with the component name.
func Component(name string) zerolog.Logger {
	return Base.With().Str("component", name).Logger()
}
