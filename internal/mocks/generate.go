// Package mocks provides mock implementations of the core ports for tests.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	doc := mocks.NewMockHostDocument(ctrl)
//	doc.EXPECT().ActiveLayer(gomock.Any()).Return("Layer 1", nil)
package mocks

// HostDocument: Name, ActiveLayer, ImportGraphic, CreateRectangle, CreateEllipse,
// CreateText, SetSize, SetPosition, ApplyStyle, GroupShapes
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=host_document_mock.go github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core HostDocument

// RunRepository: Create, Finish, GetByID, List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=run_repository_mock.go github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core RunRepository

// RunLock: Acquire, Release
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=run_lock_mock.go github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core RunLock

// PayloadReader: ReadPayloads
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payload_reader_mock.go github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/core PayloadReader
