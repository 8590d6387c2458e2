// Package content defines the parts a message is made of.
package content

// Part is one piece of a message.
type Part interface {
	PartKind() string
}

// Text is plain text written by a user or the model.
type Text struct {
	Text string
}

func (Text) PartKind() string { return "text" }

// ToolCall is the model asking for a tool to be invoked. Arguments is the raw
// JSON object produced by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

func (ToolCall) PartKind() string { return "tool_call" }

// ToolResult answers the ToolCall with the matching ID.
type ToolResult struct {
	ToolCallID string
	Content    string
	IsError    bool
}

func (ToolResult) PartKind() string { return "tool_result" }
