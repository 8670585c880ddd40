// Package storage defines persistence interfaces for the ensemble search
// engine and the binary encoding shared by their implementations.
//
// Two repositories are defined:
//
//   - ScoreRepository memoizes oracle scores by canonical key so repeated
//     runs against an expensive oracle do not pay for the same ensemble twice.
//   - CheckpointRepository stores each completed tier of a run so an
//     interrupted search can resume from the last finished tier.
//
// Expressions are encoded with mus-go as a prefix walk of the tree: a tag,
// then either the leaf name or the operator symbol followed by the operand
// count and the operands.
//
// The storage/badger package provides BadgerDB implementations.
package storage
