package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"document-review-api/logger"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// Logger is the process-wide structured logger. It discards output until InitLogging runs.
var Logger = logger.NewNop()

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "review-api.log")
}

// InitLogging prepares the log file and builds the structured logger on top of it.
func InitLogging() (*os.File, io.Writer) {
	logPath := filepath.Dir(LogFilePath())
	if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
	} else {
		LogWriter = io.MultiWriter(os.Stdout, logFile)
	}
	log.SetOutput(LogWriter)

	mode := "development"
	if IsProduction() {
		mode = "production"
	}
	l, err := logger.New(mode, LogWriter)
	if err != nil {
		log.Printf("Warning: Failed to build logger: %v", err)
		return logFile, LogWriter
	}
	Logger = l
	return logFile, LogWriter
}
