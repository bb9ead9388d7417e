// Package mock provides test doubles for the ai interfaces.
//
// The mocks are deterministic by default (the embedder derives a stable
// unit vector from the text hash, the generator returns a canned answer)
// and allow behavior injection through function fields for failure testing.
// Constructors return concrete types so tests can assert call counts and
// captured inputs.
package mock
