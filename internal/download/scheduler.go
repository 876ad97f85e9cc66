package download

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidLimit is returned for a concurrency limit below 1.
	ErrInvalidLimit = errors.New("concurrency limit must be at least 1")

	// ErrSchedulingAborted is returned when backlog items could not be
	// dispatched because the run was cancelled.
	ErrSchedulingAborted = errors.New("scheduling aborted")
)

// Task is the unit of work run for one backlog item.
type Task[T any] func(ctx context.Context, item T) error

// Result describes one settled item.
type Result[T any] struct {
	Item T

	// Index is the item's position in the backlog.
	Index int

	// Slot is the worker (0..window-1) that ran the item.
	Slot int

	// Err is the task's error, nil on success.
	Err error
}

// Summary counts the items of one scheduler run.
type Summary struct {
	Dispatched int
	Succeeded  int
	Failed     int
}

// Queue is a FIFO backlog safe for concurrent Dequeue.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	taken int
}

// NewQueue returns a queue holding a copy of items.
func NewQueue[T any](items []T) *Queue[T] {
	return &Queue[T]{items: append([]T(nil), items...)}
}

// Enqueue appends item to the back of the queue.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Dequeue removes the front item. index is the number of items dequeued
// before it; ok is false when the queue is empty.
func (q *Queue[T]) Dequeue() (item T, index int, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return item, 0, false
	}
	item = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	index = q.taken
	q.taken++
	return item, index, true
}

// Len returns the number of items not yet dequeued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Scheduler runs a task over a backlog with at most limit items in flight.
//
// Run starts min(limit, len(backlog)) workers. Each worker is one slot of
// the window: it takes the next item from the front of the backlog, runs
// it, reports the result and immediately takes the next one, so the window
// stays full until the backlog is empty. A failing item only affects its
// own result.
//
// Example:
//
//	sched, _ := NewScheduler(5, func(r Result[model.Track]) {
//	    if r.Err != nil {
//	        log.Printf("%s failed: %v", r.Item.Title, r.Err)
//	    }
//	})
//	summary, err := sched.Run(ctx, album.Tracks, downloadTrack)
type Scheduler[T any] struct {
	limit    int
	onSettle func(Result[T])
}

// NewScheduler creates a scheduler. onSettle, which may be nil, is called
// once per settled item, always from the goroutine that called Run.
func NewScheduler[T any](limit int, onSettle func(Result[T])) (*Scheduler[T], error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, limit)
	}
	return &Scheduler[T]{limit: limit, onSettle: onSettle}, nil
}

// Limit returns the maximum number of items in flight.
func (s *Scheduler[T]) Limit() int {
	return s.limit
}

// Run executes task for every item of backlog and returns when all
// dispatched items have settled.
//
// Cancelling ctx stops dispatching: items still in the backlog are not
// started and Run returns an error wrapping ErrSchedulingAborted. Items
// already started are not interrupted; task receives a context that is
// never cancelled. A panicking task settles its item with an error.
func (s *Scheduler[T]) Run(ctx context.Context, backlog []T, task Task[T]) (Summary, error) {
	var summary Summary

	queue := NewQueue(backlog)
	window := min(s.limit, queue.Len())
	if window == 0 {
		return summary, nil
	}

	results := make(chan Result[T], window)
	taskCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for slot := 0; slot < window; slot++ {
		g.Go(func() error {
			return s.work(ctx, taskCtx, slot, queue, task, results)
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(results)
	}()

	for r := range results {
		summary.Dispatched++
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		if s.onSettle != nil {
			s.onSettle(r)
		}
	}

	return summary, <-waitErr
}

// work is one slot of the window.
func (s *Scheduler[T]) work(ctx, taskCtx context.Context, slot int, queue *Queue[T], task Task[T], results chan<- Result[T]) error {
	for {
		if err := ctx.Err(); err != nil {
			if remaining := queue.Len(); remaining > 0 {
				return fmt.Errorf("%w: %d items not dispatched: %w", ErrSchedulingAborted, remaining, err)
			}
			return nil
		}

		item, index, ok := queue.Dequeue()
		if !ok {
			return nil
		}

		results <- Result[T]{
			Item:  item,
			Index: index,
			Slot:  slot,
			Err:   runTask(taskCtx, task, item),
		}
	}
}

func runTask[T any](ctx context.Context, task Task[T], item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx, item)
}
