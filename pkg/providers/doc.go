// Package providers holds the concrete model adapters. Each sub-package
// implements [github.com/germanamz/wildlife/pkg/modeladapter.Completer] on
// top of the embeddable modeladapter.ModelAdapter.
//
//   - [github.com/germanamz/wildlife/pkg/providers/anthropic] speaks the
//     Anthropic Messages API
package providers
