package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// ETLLogger writes pipeline log messages to a dated log file and to stdout.
type ETLLogger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
}

// NewETLLogger creates a logger for the ETL process. Debug messages are
// emitted only when verbose is true.
func NewETLLogger(verbose bool) *ETLLogger {
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("etl_log_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("failed to open or create log file: %v", err)
	}

	return &ETLLogger{
		infoLogger:  log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(file, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		debugLogger: log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
		isVerbose:   verbose,
	}
}

// Info logs an informational message.
func (l *ETLLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)
	log.Println("INFO:", msg)
}

// Warn logs a warning message.
func (l *ETLLogger) Warn(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.warnLogger.Println(msg)
	log.Println("WARN:", msg)
}

// Error logs an error message.
func (l *ETLLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)
	log.Println("ERROR:", msg)
}

// Debug logs a debug message when verbose mode is enabled.
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)
	log.Println("DEBUG:", msg)
}

// LogPhaseStart logs the beginning of a pipeline phase.
func (l *ETLLogger) LogPhaseStart(phase string) {
	l.Info("Starting phase: %s", phase)
}

// LogPhaseComplete logs the completion of a pipeline phase with its duration.
func (l *ETLLogger) LogPhaseComplete(phase string, duration time.Duration) {
	l.Info("Phase %s completed. Duration: %v", phase, duration)
}
