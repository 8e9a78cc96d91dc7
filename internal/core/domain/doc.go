// Package domain defines the core business entities for embedprep.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProductMetadata: A projected product record from the metadata dataset
//   - Review: One review row from the review dataset
//   - JoinedRecord: The emitted output unit, one per accepted review
//   - JoinStats: Counters accumulated over a join run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
