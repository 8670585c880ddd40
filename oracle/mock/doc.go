// Package mock provides scorers for tests and exploratory runs.
//
// LeafCountScorer and TableScorer are deterministic. RandomScorer draws
// i.i.d. scores for exploratory searches. MockScorer wraps an arbitrary
// function and counts calls so tests can assert how often the search engine
// consulted the oracle.
package mock
