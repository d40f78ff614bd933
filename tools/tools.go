//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are run via `go run` or installed with `go install`; they are
// not runtime dependencies.
package tools

// Development tools:
//
// mockgen - gomock code generator for internal/mocks
//   Run: go generate ./internal/mocks
//   Version: v0.6.0 (matches go.uber.org/mock in go.mod)
//   Docs: https://github.com/uber-go/mock
//
// golangci-lint - linter aggregator (see the nolint directives in cmd/qrbadge)
//   Install: go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest
//   Docs: https://golangci-lint.run
