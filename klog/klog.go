// Package klog is the leveled logger shared by the cache, the allocator and
// the boot sequence.
package klog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Level represents the logging level.
type Level int32

const (
	// LevelNone disables all logging.
	LevelNone Level = iota
	// LevelError enables error logging.
	LevelError
	// LevelInfo enables info and error logging.
	LevelInfo
	// LevelDebug enables all logging.
	LevelDebug
)

var currentLevel atomic.Int32

var (
	debugLogger *log.Logger
	infoLogger  *log.Logger
	errorLogger *log.Logger
)

func init() {
	currentLevel.Store(int32(LevelError))
	debugLogger = log.New(os.Stdout, "[DEBUG] ", log.Ldate|log.Ltime|log.Lshortfile)
	infoLogger = log.New(os.Stdout, "[INFO] ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger = log.New(os.Stderr, "[ERROR] ", log.Ldate|log.Ltime|log.Lshortfile)
}

// SetLevel changes the level for every logger.
func SetLevel(level Level) { currentLevel.Store(int32(level)) }

// CurrentLevel returns the active level.
func CurrentLevel() Level { return Level(currentLevel.Load()) }

// SetOutput redirects all levels to w.
func SetOutput(w io.Writer) {
	debugLogger.SetOutput(w)
	infoLogger.SetOutput(w)
	errorLogger.SetOutput(w)
}

// Debug logs debug information.
func Debug(format string, v ...any) {
	if CurrentLevel() >= LevelDebug {
		debugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Info logs informational messages.
func Info(format string, v ...any) {
	if CurrentLevel() >= LevelInfo {
		infoLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Error logs error information.
func Error(format string, v ...any) {
	if CurrentLevel() >= LevelError {
		errorLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelError:
		return "error"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("Level(%d)", int32(l))
	}
}
