// Package collection provides lazy, chainable sequence operators over
// synchronous sources.
//
// A Collection is cold: constructing or chaining one performs no iteration.
// Work happens only when a terminal evaluator (ToSlice, ForEach, First, Sum,
// ...) or Iter drives it, and every enumeration re-reads the upstream from
// scratch. No operator mutates its receiver.
//
// Type-preserving operators are methods; operators that change the element
// type (Map, Chunk, GroupBy, Zip, ...) are package functions.
//
// # Sources
//
//   - New, FromSlice: ordered sequences
//   - FromString: one element per rune
//   - FromSet, FromMap: set-like and key/value maps, in ascending key order
//   - FromSeq, FromSeq2, FromIterable, FromFunc: range-over-func sources
//   - FromIterator: the canonical error-returning iteration protocol
//   - FromValue: reflective normalization of an arbitrary value into Collection[any]
//
// # Operators
//
// Streaming (O(1) memory): Filter, Reject, Map, FlatMap, Tap, Take, TakeWhile,
// TakeUntil, Skip, SkipWhile, SkipUntil, Change, Entries, Prepend, Append,
// InsertBefore, InsertAfter, Repeat, Unique, UniqueBy, Zip.
//
// Windowed and global (buffering): Chunk, ChunkWhile, Split, Sliding,
// Partition, Reverse, GroupBy, CountBy, Difference, CrossJoin, PadStart,
// PadEnd, Sort, SortFunc, Shuffle, negative Slice bounds.
//
// # Errors
//
// Operator construction never fails. Invalid parameters and malformed items
// surface as *errors.AppError values from the terminal that reaches them.
// Terminals wrap any foreign error as UNEXPECTED, preserving the cause.
//
// # Usage
//
//	evens := collection.New(1, 2, 3, 4, 5, 6).Filter(func(n, _ int) bool { return n%2 == 0 })
//	chunks, err := collection.Chunk(evens, 2).ToSlice() // [[2 4] [6]]
//
// Re-enumerating a Collection built over a one-shot source (an iter.Seq that
// cannot restart) is the caller's responsibility; use Materialize to snapshot
// such a source on first use.
package collection
