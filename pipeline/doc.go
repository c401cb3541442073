// Package pipeline is the asynchronous counterpart of package collection.
//
// A Pipeline is lazy and cold: nothing runs until a terminal pulls values,
// and every enumeration re-opens the source. Each stage pulls from the
// previous one on demand through Iterator.Next, so callbacks may block on
// I/O and every pull observes the caller's context.
//
// Callbacks receive the context, the value and the zero-based index of the
// value within the stage that calls them. Pred and Fn lift plain callbacks.
//
// # Operators
//
// Streaming stages keep at most a bounded amount of state:
//
//   - Map, FlatMap, Flatten, Entries, Filter, Reject, Tap, Change
//   - Take, TakeWhile, TakeUntil, Skip, SkipWhile, SkipUntil
//   - Concat, Prepend, Append, InsertBefore, InsertAfter, Repeat
//   - Chunk, ChunkWhile, Sliding, Unique, UniqueBy, Difference, Zip
//   - Delay, Timeout, Abort
//
// Global stages drain their upstream on the first pull:
//
//   - Sort, SortFunc, Shuffle, Reverse, Split, Partition
//   - GroupBy, CountBy, CrossJoin, PadStart, PadEnd
//   - Slice, SliceFrom, Take and Skip with negative counts
//
// Terminals take a context and close every iterator they open. Errors
// leave terminals as *errors.AppError; foreign errors are wrapped as
// UNEXPECTED with the original kept as the cause.
//
// # Usage
//
//	src := pipeline.Range(1, 11, 1)
//	doubled := pipeline.Map(src, pipeline.Fn(func(n, _ int) int { return n * 2 }))
//	evens := doubled.Filter(pipeline.Pred(func(n, _ int) bool { return n%4 == 0 }))
//	total, err := pipeline.Sum(ctx, evens)
package pipeline
