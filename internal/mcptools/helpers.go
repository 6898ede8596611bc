package mcptools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// uintArg extracts a non-negative integer argument, returning 0 when the
// key is missing, not a number, or negative.
func uintArg(req mcp.CallToolRequest, key string) uint64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok || v < 0 {
		return 0
	}
	return uint64(v)
}

// idListArg extracts a list of task IDs from a tool request. The argument
// may be a JSON array of numbers or a JSON-encoded string like "[1,2,3]"
// (some clients stringify array parameters).
func idListArg(req mcp.CallToolRequest, key string) []uint64 {
	raw, ok := req.GetArguments()[key]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []any:
		ids := make([]uint64, 0, len(v))
		for _, item := range v {
			n, ok := item.(float64)
			if !ok || n < 0 {
				return nil
			}
			ids = append(ids, uint64(n))
		}
		return ids
	case string:
		var ids []uint64
		if err := json.Unmarshal([]byte(v), &ids); err != nil {
			return nil
		}
		return ids
	default:
		return nil
	}
}

// requireLogin returns the session's user ID, or an error result when the
// session is logged out. The error result is returned to the model, not
// treated as a protocol failure.
func requireLogin(session *Session) (uint64, *mcp.CallToolResult) {
	userID, _, ok := session.Current()
	if !ok {
		return 0, mcp.NewToolResultError("not logged in: call the login tool first")
	}
	return userID, nil
}
