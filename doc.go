// Package logtree is the core of a high-performance structured-log
// processor. Given an input byte stream containing a sequence of log
// records encoded as either JSON objects (one per line) or logfmt lines,
// it segments the stream into records, parses each record into a compact
// flat-tree AST, and exposes that tree to downstream consumers (a filter,
// a formatter, a renderer) as a typed Record with fast predefined-field
// accessors (time, level, message, logger, caller) plus an iterable set
// of remaining fields.
//
// # Zero-copy by construction
//
// All string payloads are kept as [Span] or [EncodedString] values that
// reference the caller's input buffer. Nothing is copied during parsing,
// and field values are not decoded: the only decoding done while parsing
// is of root-level keys, into pooled scratch space, to match them against
// the predefined-field aliases. A value is decoded when a consumer asks
// for its bytes via [EncodedString.Decode].
//
// # Entry point
//
// Construct a [Parser] with [NewParser] and call [Parser.Next] in a loop
// until it returns io.EOF. Recycle records back to the parser with
// [Parser.Recycle] to reuse the tree's backing storage across records.
//
// # Out of scope
//
// Terminal rendering, CLI parsing, config loading, file discovery, pager
// invocation, timestamp formatting, and filter pattern matching are all
// external collaborators that consume a finalized Record — none of that
// lives in this package.
package logtree
