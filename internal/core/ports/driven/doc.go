// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - MetadataStore: ASIN-keyed product metadata index. Built once to
//     completion before any review is processed, read-only afterwards.
//     Backed by an in-memory map by default, or SQLite for metadata
//     datasets that exceed memory.
//   - LineStreamer: Opens line-oriented sources and sinks with transparent
//     compression selected by filename suffix.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
