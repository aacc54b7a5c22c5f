// Package scheduler implements a worker pool executing named work with futures.
//
// The verifier uses it to run independent checks. With one worker the checks run
// one after the other in submission order; more workers let read-only checks
// overlap.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                         Scheduler                           │
//	│                                                             │
//	│   ┌──────────┐      ┌──────────┐      ┌──────────┐          │
//	│   │ Worker 1 │      │ Worker 2 │      │ Worker N │          │
//	│   └──────────┘      └──────────┘      └──────────┘          │
//	│        ▲                 ▲                 ▲                │
//	│        └─────────────────┼─────────────────┘                │
//	│                   ┌──────┴──────┐                           │
//	│                   │ dispatch()  │                           │
//	│                   └──────┬──────┘                           │
//	│   ┌──────────────────────┴──────────────────────┐           │
//	│   │ Work Queue  [check1] [check2] [check3] ...  │           │
//	│   └─────────────────────────────────────────────┘           │
//	│                          ▲                                  │
//	│                 AddWork(name, fn)                           │
//	└─────────────────────────────────────────────────────────────┘
//
// dispatch() runs when work arrives and when a worker returns to the pool.
//
// # Futures
//
// AddWork returns immediately with a Future. Its channel receives exactly one
// Result carrying the work name, the returned data or error, and how long the
// work ran. Wait(ctx) blocks for the result and cancels the work if ctx ends
// first; Stop() cancels it explicitly.
//
//	future := sched.AddWork("line-count-parity", func(ctx context.Context) (any, error) {
//	    return checker.CompareLineCounts(ctx)
//	})
//	result, err := future.Wait(ctx)
//
// # Panic Recovery
//
// A panicking work function is logged and reported as an error result; the
// worker goes back to the pool.
//
// # Shutdown
//
// Close() cancels every work context, waits for in-flight work and stops the
// event loop. It is idempotent. AddWork after Close returns a future already
// holding context.Canceled.
package scheduler
