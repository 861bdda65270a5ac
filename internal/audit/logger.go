// Package audit writes the operational trail both to the process log and,
// best effort, to the remote Logs table. A remote append that fails must
// never fail the operation being logged.
package audit

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

// Sink appends one log row remotely.
type Sink interface {
	AppendLog(ctx context.Context, level, message string) error
}

type Logger struct {
	sink    Sink
	timeout time.Duration
}

func New(sink Sink) *Logger {
	return &Logger{sink: sink, timeout: 10 * time.Second}
}

func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, fmt.Sprintf(format, args...))
}

func (l *Logger) write(level, msg string) {
	log.Printf("[%s] %s", level, msg)
	if l.sink == nil {
		return
	}
	// Fire and forget: the remote trail is advisory.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		if err := l.sink.AppendLog(ctx, level, msg); err != nil {
			log.Printf("[%s] remote log append failed: %v", LevelError, err)
		}
	}()
}
