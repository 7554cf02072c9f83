// Package logger provides the process-wide structured logger.
package logger

import (
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init initializes the global logger with console output only.
func Init(verbose bool) {
	once.Do(func() {
		initLogger(verbose, "")
	})
}

// InitWithFile initializes the global logger with both console and rotating
// JSON file output.
func InitWithFile(verbose bool, logFile string) {
	once.Do(func() {
		initLogger(verbose, logFile)
	})
}

func initLogger(verbose bool, logFile string) {
	var level zapcore.Level
	var encoderConfig zapcore.EncoderConfig

	if verbose {
		level = zapcore.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		level = zapcore.InfoLevel
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	if logFile != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    20, // MB
				MaxBackups: 3,
				MaxAge:     14, // days
			}),
			level,
		)
		cores = append(cores, fileCore)
	}

	log = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Get returns the global logger, initializing a default one if needed.
func Get() *zap.Logger {
	if log == nil {
		Init(false)
	}
	return log
}

// Sync flushes any buffered log entries.
func Sync() {
	if log != nil {
		log.Sync()
	}
}
