// Package modeladapter defines how the agent talks to a language model.
//
// It contains:
//   - [Completer], the capability the agent loop depends on: given a
//     conversation and the callable tools, produce the model's next message
//   - [ModelAdapter], an embeddable base with the HTTP plumbing providers share
//     (auth header, extra headers, JSON POST, status checking)
//   - [github.com/germanamz/wildlife/pkg/modeladapter/usage]: token usage tracking
//
// Provider wire formats live in their own packages under pkg/providers.
package modeladapter
