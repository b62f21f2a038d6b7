// Package mcp exposes the flashcard, Anki, Zotero and Obsidian operations as MCP tools
package mcp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xstraven/mcp-server-learning/internal/domain"
)

// Envelope is the body every tool returns, serialized as JSON text
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func toolSuccess(data any, message string) (*mcp.CallToolResult, error) {
	return envelopeResult(Envelope{Success: true, Data: data, Message: message})
}

// toolError reports err in the envelope; handlers never return Go errors
func toolError(err error) (*mcp.CallToolResult, error) {
	env := Envelope{Error: err.Error()}
	if kind := domain.KindOf(err); kind != domain.KindUnknown {
		env.ErrorKind = kind.String()
	}
	return envelopeResult(env)
}

// toolFailure reports a failed outcome that still carries data, such as an upload result
func toolFailure(data any, message string) (*mcp.CallToolResult, error) {
	return envelopeResult(Envelope{Data: data, Error: message})
}

func envelopeResult(env Envelope) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to serialize result: " + err.Error()), nil
	}
	if !env.Success {
		return mcp.NewToolResultError(string(body)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

// --- argument helpers ---

// stringList reads an array argument, or a comma-separated string
func stringList(req mcp.CallToolRequest, key string) []string {
	switch v := req.GetArguments()[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s := strings.TrimSpace(fmt.Sprint(x)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// idList reads an array of numeric ids, or a comma-separated string of them
func idList(req mcp.CallToolRequest, key string) ([]int64, error) {
	var ids []int64
	switch v := req.GetArguments()[key].(type) {
	case nil:
		return nil, nil
	case []any:
		for _, x := range v {
			switch n := x.(type) {
			case float64:
				ids = append(ids, int64(n))
			case string:
				id, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
				if err != nil {
					return nil, domain.NewError(domain.KindInputInvalid, key, fmt.Sprintf("invalid id %q", n))
				}
				ids = append(ids, id)
			default:
				return nil, domain.NewError(domain.KindInputInvalid, key, fmt.Sprintf("invalid id %v", x))
			}
		}
	default:
		for _, s := range stringList(req, key) {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, domain.NewError(domain.KindInputInvalid, key, fmt.Sprintf("invalid id %q", s))
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// stringMap reads an object argument, or the same object encoded as a JSON string
func stringMap(req mcp.CallToolRequest, key string) (map[string]string, error) {
	raw := req.GetArguments()[key]
	if s, ok := raw.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, domain.NewError(domain.KindInputInvalid, key, "must be an object of field names to values")
		}
		raw = decoded
	}
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, x := range v {
			out[k] = fmt.Sprint(x)
		}
		return out, nil
	}
	return nil, domain.NewError(domain.KindInputInvalid, key, "must be an object of field names to values")
}

// hasArg reports whether the caller supplied key at all
func hasArg(req mcp.CallToolRequest, key string) bool {
	_, ok := req.GetArguments()[key]
	return ok
}
