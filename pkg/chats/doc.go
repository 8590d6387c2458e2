// Package chats holds the conversation model shared by the agent loop and the
// model providers.
//
//   - [github.com/germanamz/wildlife/pkg/chats/role]: who sent a message
//   - [github.com/germanamz/wildlife/pkg/chats/content]: text, tool calls and tool results
//   - [github.com/germanamz/wildlife/pkg/chats/message]: a role plus content parts
//   - [github.com/germanamz/wildlife/pkg/chats/chat]: the ordered transcript of one run
//
// Nothing here talks to a provider; adapters translate these types to and
// from their wire formats.
package chats
