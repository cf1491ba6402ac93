// Package commands contains CLI command implementations for the application.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	tokenDomain "github.com/allisson/authcore/internal/token/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// outputJSON writes the value as indented JSON.
func outputJSON(value any, writer io.Writer) {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(value)
}

// parseResourceType converts a resource type string to its domain value.
func parseResourceType(resourceType string) (tokenDomain.ResourceType, error) {
	switch resourceType {
	case "channel", "":
		return tokenDomain.ResourceTypeChannel, nil
	case "log":
		return tokenDomain.ResourceTypeLog, nil
	case "blob":
		return tokenDomain.ResourceTypeBlob, nil
	default:
		return 0, fmt.Errorf("invalid resource type: %s (valid options: channel, log, blob)", resourceType)
	}
}

// parseFormat converts a wire format string to its domain value. Empty means
// automatic selection.
func parseFormat(format string) (tokenDomain.Format, error) {
	switch format {
	case "":
		return 0, nil
	case "v2":
		return tokenDomain.FormatV2, nil
	case "v3":
		return tokenDomain.FormatV3, nil
	case "v4":
		return tokenDomain.FormatV4, nil
	case "unified":
		return tokenDomain.FormatUnified, nil
	default:
		return 0, fmt.Errorf("invalid format: %s (valid options: v2, v3, v4, unified)", format)
	}
}
