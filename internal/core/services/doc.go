// Package services implements the core pipeline logic: metadata index
// construction, the streaming review join, and the embedding-text
// template. Services depend only on domain types and driven ports;
// file handling and storage are injected by adapters.
package services
