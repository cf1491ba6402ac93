package commands

import (
	"fmt"

	tokenService "github.com/allisson/authcore/internal/token/service"
)

// RunParseToken extracts a token's routing fields without any signature or
// expiry check. Storage-free; nothing in the output is authenticated.
func RunParseToken(codec tokenService.Codec, token string, jsonOutput bool, io IOTuple) error {
	info := codec.Parse(token)
	if info == nil {
		return fmt.Errorf("malformed token")
	}

	if jsonOutput {
		outputJSON(map[string]any{
			"format":       info.Format,
			"type":         info.Type,
			"resourceType": info.ResourceType.String(),
			"resourceId":   info.ResourceID,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Format: %d\n", info.Format)
		_, _ = fmt.Fprintf(io.Writer, "Type: %d\n", info.Type)
		_, _ = fmt.Fprintf(io.Writer, "Resource: %s %s\n", info.ResourceType, info.ResourceID)
		_, _ = fmt.Fprintln(io.Writer, "Warning: parsed fields are unauthenticated")
	}
	return nil
}
