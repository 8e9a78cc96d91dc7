// Package normalisers groups the field-level normalisers applied while
// projecting noisy source values: price extraction, canonical date
// resolution, and HTML sanitisation. Each lives in its own subpackage
// and is a pure best-effort transform: malformed values degrade to
// absent, they never abort the run.
package normalisers
