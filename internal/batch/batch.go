// Package batch runs the same single-item operation over a precomputed,
// order-stable work list: one item at a time, failures recorded per item,
// never aborting the batch because one item failed.
package batch

import "context"

// Result records the outcome of one item in a batch.
type Result struct {
	Key string
	Err error
}

// Report summarizes a completed batch run.
type Report struct {
	Results []Result
	// Interrupted is set when context cancellation stopped the batch
	// between items; items after the cut-off were never attempted.
	Interrupted bool
}

// Succeeded returns the number of items that completed without error.
func (r Report) Succeeded() int {
	count := 0
	for _, result := range r.Results {
		if result.Err == nil {
			count++
		}
	}
	return count
}

// Failed returns the number of items whose operation returned an error.
func (r Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Empty reports whether the batch had no eligible items at all.
func (r Report) Empty() bool {
	return len(r.Results) == 0
}

// FirstError returns the first per-item error, or nil.
func (r Report) FirstError() error {
	for _, result := range r.Results {
		if result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// Run executes fn for each key in order, awaiting completion of item N before
// item N+1 begins. An item's error is recorded and the loop proceeds; only
// context cancellation stops the batch early, checked between items so the
// in-flight item always finishes and releases its markers.
func Run(ctx context.Context, keys []string, fn func(ctx context.Context, key string) error) Report {
	report := Report{Results: make([]Result, 0, len(keys))}
	for _, key := range keys {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		report.Results = append(report.Results, Result{Key: key, Err: fn(ctx, key)})
	}
	return report
}
