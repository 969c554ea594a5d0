// Package workers runs the background jobs of the client next to the
// viewer.
// It defines the Worker interface and a Workers aggregate that starts
// every worker in its own goroutine and waits for all of them.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is done or the job
// has nothing left to do.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    <-ctx.Done()
//	}
type Worker interface {
	Run(ctx context.Context)
}
