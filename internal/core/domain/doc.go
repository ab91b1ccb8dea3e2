// Package domain contains the core business entities for AgroLens.
// These are pure domain objects with no knowledge of adapters or
// external services.
package domain
