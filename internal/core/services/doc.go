// Package services implements the application core: query
// classification, numeric aggregation, retrieval-augmented answering,
// and the dataset indexing pipeline. Services receive their
// collaborators through constructors so adapters (including the offline
// embedding fallback) can be substituted in tests.
package services
