package jewelfeed

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// logger is an interface for logging.
type logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Fatal(format string, args ...interface{})
}

// defaultLogger is a default implementation of the logger interface using the standard log package.
type defaultLogger struct {
	logger *log.Logger
}

// newDefaultLogger creates a logger that writes to both a dated file under
// storage/logs/<siteName> and stdout.
func newDefaultLogger(siteName string) *defaultLogger {
	currentDate := time.Now().Format("2006-01-02")
	directory := filepath.Join("storage", "logs", siteName)
	err := os.MkdirAll(directory, 0755)
	if err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	logFilePath := filepath.Join(directory, currentDate+"_application.log")

	// Open the log file in append mode, create if it doesn't exist.
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	// Create a multi-writer that writes to both the file and the terminal.
	multiWriter := io.MultiWriter(file, os.Stdout)

	return &defaultLogger{
		logger: log.New(multiWriter, "⏱️ ", log.LstdFlags),
	}
}

// newTestLogger discards output; used from tests.
func newTestLogger() *defaultLogger {
	return &defaultLogger{logger: log.New(io.Discard, "", 0)}
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	l.logger.Printf("📢 INFO: "+format, args...)
}

func (l *defaultLogger) Warn(format string, args ...interface{}) {
	l.logger.Printf("⚠️ WARN: "+format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	l.logger.Printf("🛑 ERROR: "+format, args...)
}

func (l *defaultLogger) Fatal(format string, args ...interface{}) {
	l.logger.Fatalf("🚨 FATAL: "+format, args...)
}

func (l *defaultLogger) Printf(format string, args ...interface{}) {
	l.logger.Printf(format, args...)
}
