// Package logging configures the process-wide zerolog logger: a colorized
// console sink plus a rotating file sink, mirroring how the rest of the
// RenkoDiscovery tooling expects log output to behave whether run
// interactively or from a scheduled job.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
func Init(verbose bool) {
	// 0. Load .env from binary directory first so RENKO_LOG_PATH etc. are available
	// before Init needs them.
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		exeDir := filepath.Dir(exePath)
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}
	_ = godotenv.Load()

	level := zerolog.InfoLevel
	if verbose || os.Getenv("VERBOSE") == "true" {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	logPath := os.Getenv("RENKO_LOG_PATH")
	if logPath == "" {
		dataPath := os.Getenv("RENKO_DATA_PATH")
		if dataPath == "" {
			if exeErr == nil {
				dataPath = filepath.Dir(exePath)
			} else {
				dataPath = "."
			}
		}
		logPath = filepath.Join(dataPath, "logs")
	}

	if err := os.MkdirAll(logPath, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create log directory %q: %v\n", logPath, err)
		os.Exit(1)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logPath, "renkodiscovery.log"),
		MaxSize:    16, // megabytes
		MaxBackups: 16,
		MaxAge:     90, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)

	log.Logger = zerolog.New(multi).
		With().
		Timestamp().
		Logger()

	log.Debug().Msg("logging initialized")
}
