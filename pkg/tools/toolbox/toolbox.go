// Package toolbox groups the tools an agent may call and executes tool calls
// coming back from the model.
package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/germanamz/wildlife/pkg/chats/content"
)

// ToolBox is a named set of tools.
type ToolBox struct {
	tools map[string]Tool
}

// New creates an empty ToolBox.
func New() *ToolBox {
	return &ToolBox{tools: make(map[string]Tool)}
}

// Register adds tools, replacing any existing tool with the same name.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns the named tool.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns the registered tools ordered by name so that requests built
// from them are stable.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}

// Call executes tc. An unknown tool or a handler error produces a result with
// IsError set; Call itself never fails.
func (tb *ToolBox) Call(ctx context.Context, tc content.ToolCall) content.ToolResult {
	t, ok := tb.tools[tc.Name]
	if !ok {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    fmt.Sprintf("tool not found: %s", tc.Name),
			IsError:    true,
		}
	}

	result, err := t.Handler(ctx, json.RawMessage(tc.Arguments))
	if err != nil {
		return content.ToolResult{
			ToolCallID: tc.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	return content.ToolResult{
		ToolCallID: tc.ID,
		Content:    result,
	}
}
