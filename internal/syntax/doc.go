// Package syntax builds a lossless token tree over lexed Rust source and
// answers the few structural questions the derive sorter needs.
//
// The tree has three node kinds: the root (a whole file), token trees (a
// delimited group whose first and last children are the delimiter tokens,
// or an undelimited sequence produced by a rewrite) and token leaves. Trivia
// are ordinary leaves, so flattening any node yields its exact source text.
//
// Nodes are mutable values; rewrites operate on a Clone and never touch the
// tree the spans were computed from.
package syntax
