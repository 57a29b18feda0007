package utils

import (
	"fmt"
	"io"
	"log"
	"os"
)

type Logger struct {
	out       *log.Logger
	file      *os.File
	debugMode bool
}

// NewFileLogger writes to stdout and, when logFilePath is set, appends to that file as well.
func NewFileLogger(logFilePath string, debugMode bool) (*Logger, error) {
	if logFilePath == "" {
		return NewLogger(os.Stdout, debugMode), nil
	}

	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := NewLogger(io.MultiWriter(os.Stdout, file), debugMode)
	logger.file = file
	return logger, nil
}

func NewLogger(w io.Writer, debugMode bool) *Logger {
	return &Logger{
		out:       log.New(w, "", log.Ldate|log.Ltime),
		debugMode: debugMode,
	}
}

func (l *Logger) Debug(component, message string) {
	if l.debugMode {
		l.log("debug", component, message)
	}
}

func (l *Logger) Info(component, message string) {
	l.log("info", component, message)
}

func (l *Logger) Warning(component, message string) {
	l.log("warning", component, message)
}

func (l *Logger) Error(component, message string, err error) {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	l.log("error", component, msg)
}

func (l *Logger) log(level, component, message string) {
	l.out.Printf("[%s] %s: %s", level, component, message)
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
