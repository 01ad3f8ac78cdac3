package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Similarity label constants.
const (
	TwinValue       = "Twin"       // Near-identical statistical profile
	StrongValue     = "Strong"     // Strong stylistic match
	ComparableValue = "Comparable" // Same neighborhood, different emphasis
	DistantValue    = "Distant"    // Weak match
)

// Color variables for console output.
var (
	TwinColor       = color.New(color.FgGreen, color.Bold)
	StrongColor     = color.New(color.FgCyan)
	ComparableColor = color.New(color.FgYellow)
	DistantColor    = color.New(color.FgWhite)
)

// GetPlainLabel returns a plain text label for a similarity score. This
// is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(similarity float64) string {
	switch {
	case similarity >= 0.5:
		return TwinValue
	case similarity >= 0.3:
		return StrongValue
	case similarity >= 0.15:
		return ComparableValue
	default:
		return DistantValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(similarity float64) string {
	text := GetPlainLabel(similarity)

	switch text {
	case TwinValue:
		return TwinColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case ComparableValue:
		return ComparableColor.Sprint(text)
	default:
		return DistantColor.Sprint(text)
	}
}

// LogFatal logs a fatal error to stderr and exits.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// TruncateName truncates a player name to a maximum width with an
// ellipsis suffix.
func TruncateName(name string, maxWidth int) string {
	if maxWidth <= 3 || len(name) <= maxWidth {
		return name
	}
	return name[:maxWidth-3] + "..."
}

// ParseBoolString parses yes/no style flag values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "on":
		return true, nil
	case "no", "n", "false", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes/no, got %q", s)
	}
}

// SelectOutputFile opens the output destination, defaulting to stdout
// when no file is configured. Callers must not close stdout.
func SelectOutputFile(outputFile string) (*os.File, error) {
	if outputFile == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", outputFile, err)
	}
	return file, nil
}
