package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const (
	logMaxSize    = 10 // megabytes
	logMaxBackups = 3
	logMaxAge     = 28 // days
)

// engineLogFile puts the engine log next to the session log:
// mines.log becomes mines.engine.log.
func engineLogFile(logFile string) string {
	ext := filepath.Ext(logFile)
	return strings.TrimSuffix(logFile, ext) + ".engine" + ext
}

// setupLogging builds the session logger and configures mines.Log. When
// the game owns the terminal and no log file is given all logs are
// discarded. The returned func flushes and closes log files.
func setupLogging(logFile string, screen bool) (*slog.Logger, func(), error) {
	development := config.Development()

	level := slog.LevelInfo
	logrusLevel := logrus.InfoLevel
	if development {
		level = slog.LevelDebug
		logrusLevel = logrus.DebugLevel
	}
	mines.Log.SetLevel(logrusLevel)

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	switch {
	case logFile != "":
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
		}
		w = lj
		closeFn = func() { lj.Close() }

		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   engineLogFile(logFile),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Level:      logrusLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, nil, err
		}
		mines.Log.AddHook(hook)
		mines.Log.SetOutput(io.Discard)
	case screen:
		w = io.Discard
		mines.Log.SetOutput(io.Discard)
	default:
		mines.Log.SetOutput(os.Stderr)
		mines.Log.SetFormatter(&logrus.TextFormatter{ForceColors: development})
	}

	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	if development {
		handler = tint.NewHandler(w, &tint.Options{
			Level:   level,
			NoColor: w != os.Stderr,
		})
	}
	return slog.New(handler), closeFn, nil
}
