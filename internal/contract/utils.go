package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/devevent/schema"
)

// eventsDBFileName is the default SQLite database file.
const eventsDBFileName = ".devevent.db"

// Color variables for console output.
var (
	ConnectedColor = color.New(color.FgGreen, color.Bold) // ConnectedColor marks a live connection.
	PendingColor   = color.New(color.FgYellow)            // PendingColor marks an attempt in flight.
	EmptyColor     = color.New(color.FgRed)               // EmptyColor marks no connection.
)

// GetColorState returns a colored connection state for console output.
func GetColorState(state schema.ConnectionState) string {
	text := string(state)
	switch state {
	case schema.StateConnected:
		return ConnectedColor.Sprint(text)
	case schema.StatePending:
		return PendingColor.Sprint(text)
	default:
		return EmptyColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetEventsDBFilePath returns the path to the default SQLite DB file.
func GetEventsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return eventsDBFileName
	}
	return filepath.Join(homeDir, eventsDBFileName)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
