// Package fileproc runs per-file work across a bounded goroutine pool.
package fileproc

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// ProgressFunc is called after each file completes, successfully or not.
type ProgressFunc func(completed, total int)

// ErrorFunc is called for files whose processing returned an error.
type ErrorFunc func(path string, err error)

// MapFiles processes files with up to maxWorkers goroutines and collects
// the successful results in completion order. Files scheduled after the
// context is cancelled are skipped; the context error is returned once the
// pool drains. Failures are routed to onError and do not stop the run.
func MapFiles[T any](
	ctx context.Context,
	files []string,
	maxWorkers int,
	fn func(ctx context.Context, path string) (T, error),
	onProgress ProgressFunc,
	onError ErrorFunc,
) ([]T, error) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	var (
		mu        sync.Mutex
		results   = make([]T, 0, len(files))
		completed int
	)
	total := len(files)

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, file := range files {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}

			result, err := fn(ctx, file)

			mu.Lock()
			if err != nil {
				if onError != nil {
					onError(file, err)
				}
			} else {
				results = append(results, result)
			}
			completed++
			if onProgress != nil {
				onProgress(completed, total)
			}
			mu.Unlock()
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
