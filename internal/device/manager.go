// Package device runs profile-scoped crawl tasks concurrently. Each
// device profile gets its own session against the backend, so tasks
// for different profiles never share state and may run in parallel.
package device

import (
	"context"
	"runtime"
	"sync"
)

// TaskFunc is executed once per device profile key.
type TaskFunc[T any] func(ctx context.Context, profile string) (T, error)

// Result contains the outcome of a task for one profile.
type Result[T any] struct {
	Profile string
	Value   T
	Err     error
}

// Manager controls concurrent execution of profile-scoped tasks.
type Manager[T any] struct {
	workerLimit int
}

// Option configures a Manager.
type Option[T any] func(*Manager[T])

// WithWorkerLimit sets the maximum number of concurrent workers.
func WithWorkerLimit[T any](limit int) Option[T] {
	return func(m *Manager[T]) {
		m.workerLimit = limit
	}
}

// NewManager creates a Manager with optional configuration.
func NewManager[T any](opts ...Option[T]) *Manager[T] {
	m := &Manager[T]{
		workerLimit: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.workerLimit <= 0 {
		m.workerLimit = runtime.NumCPU()
	}

	return m
}

// Run executes the task for each profile concurrently and returns the
// collected results. Cancellation stops handing out further profiles;
// tasks already running finish on their own.
func (m *Manager[T]) Run(ctx context.Context, profiles []string, task TaskFunc[T]) []Result[T] {
	results := make([]Result[T], 0, len(profiles))
	if len(profiles) == 0 {
		return results
	}

	workerCount := m.workerLimit
	if workerCount > len(profiles) {
		workerCount = len(profiles)
	}

	profileCh := make(chan string)
	resCh := make(chan Result[T], len(profiles))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for profile := range profileCh {
				value, err := task(ctx, profile)
				resCh <- Result[T]{
					Profile: profile,
					Value:   value,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		for _, profile := range profiles {
			select {
			case <-ctx.Done():
				close(profileCh)
				wg.Wait()
				close(resCh)
				return
			case profileCh <- profile:
			}
		}
		close(profileCh)
		wg.Wait()
		close(resCh)
	}()

	for res := range resCh {
		results = append(results, res)
	}

	return results
}
