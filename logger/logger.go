package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

var (
	logger *slog.Logger
	out    io.Writer = os.Stderr
	mu     sync.Mutex
)

func Init(verbose bool, json bool) {
	InitWriter(os.Stderr, verbose, json)
}

// InitWriter configures the package logger to write to w.
func InitWriter(w io.Writer, verbose bool, json bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if json {
		logger = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
		)
	} else {
		logger = slog.New(
			tint.NewHandler(w, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
				NoColor:    w != os.Stderr,
			}))
	}
	out = w
	slog.SetDefault(logger)
}

func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

type summaryStatement struct {
	level slog.Level
	msg   string
	args  []any
}

var summary = []summaryStatement{}

func AddSummaryError(msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	summary = append(summary, summaryStatement{slog.LevelError, msg, args})
}

// SummaryCount is the number of statements waiting for Close.
func SummaryCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(summary)
}

// Close flushes the summary statements between separator lines and
// clears them.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if len(summary) == 0 {
		return
	}
	line := []byte("------------\n")

	out.Write(line)
	for _, i := range summary {
		logger.Log(context.TODO(), i.level, i.msg, i.args...)
	}
	out.Write(line)
	summary = summary[:0]
}

func init() {
	Init(false, false)
}
