// Package tools holds the tool layer of the agent.
//
//   - [github.com/germanamz/wildlife/pkg/tools/toolbox] defines Tool, typed
//     tool construction and the ToolBox that dispatches tool calls
//   - [github.com/germanamz/wildlife/pkg/tools/mcpserver] serves a ToolBox over
//     the Model Context Protocol using the official MCP Go SDK
package tools
