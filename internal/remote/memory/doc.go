// Package memory implements an in-process realtime store.
//
// A [Store] keeps the whole JSON tree in memory and emits child and value
// events to subscribers on a single ordered delivery goroutine. Writes can be
// journalled through a [Persister]; a write whose journal entry fails is
// rejected and emits nothing. The store backs the dev server and the mirror
// tests.
package memory
