// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BlobStore: keyed object persistence with attached metadata tags
//   - Renderer: markdown to HTML conversion for the rendered representation
//   - ConfirmationStore: confirmation records keyed by token
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchIndex: primary full-text index. Without it every search uses the fallback scanner.
//   - DocumentIndexer: feeds newly stored documents to a local index.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
