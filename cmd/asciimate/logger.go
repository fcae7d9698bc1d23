package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

type Severity int

const (
	DEBUG Severity = iota
	INFO
	WARN
	ERROR
)

var debugEnabled bool

// SetDebug enables or disables debug output
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// Log writes a message to stderr, coloured by severity. DEBUG messages are
// dropped unless SetDebug(true) was called.
func Log(severity Severity, format string, args ...interface{}) {
	var colorFunc func(format string, a ...interface{}) string
	var prefix string

	switch severity {
	case DEBUG:
		if !debugEnabled {
			return
		}
		colorFunc = color.New(color.Faint).SprintfFunc()
		prefix = "[DEBUG]"
	case INFO:
		colorFunc = color.New(color.FgGreen).SprintfFunc()
		prefix = "[INFO]"
	case WARN:
		colorFunc = color.New(color.FgYellow).SprintfFunc()
		prefix = "[WARN]"
	default:
		colorFunc = color.New(color.FgRed).SprintfFunc()
		prefix = "[ERROR]"
	}

	fmt.Fprintln(os.Stderr, colorFunc("%s %s", prefix, fmt.Sprintf(format, args...)))
}

// Fatal logs an error and exits.
func Fatal(format string, args ...interface{}) {
	Log(ERROR, format, args...)
	os.Exit(1)
}
