package service

import (
	"context"
	"sync"

	"github.com/garyjia/default-desk/internal/application/optimistic"
	"github.com/garyjia/default-desk/internal/application/port"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/garyjia/default-desk/internal/domain/workflow"
)

// ReviewBoard keeps two views of one application family: the list last loaded
// with a browsing filter, and the queue of applications still waiting for review.
// The queue is always fetched by status, whatever the browsing filter is.
type ReviewBoard[T any] struct {
	name   string
	items  *optimistic.Slice[T]
	queue  *optimistic.Slice[T]
	load   func(ctx context.Context, filter entity.ApplicationFilter) ([]T, error)
	status func(T) entity.ApplicationStatus
	id     func(T) string
	logger Logger

	mu          sync.Mutex
	filter      entity.ApplicationFilter
	list        loadSeq
	pending     loadSeq
	queueLoaded bool
}

// loadSeq orders concurrent loads of one view so an older response never
// overwrites a newer one
type loadSeq struct {
	issued  uint64
	applied uint64
}

func (q *loadSeq) next() uint64 {
	q.issued++
	return q.issued
}

func (q *loadSeq) accept(seq uint64) bool {
	if seq <= q.applied {
		return false
	}
	q.applied = seq
	return true
}

// NewDefaultReviewBoard creates the board for default applications
func NewDefaultReviewBoard(api port.DefaultApplicationAPI, logger Logger) *ReviewBoard[entity.DefaultApplication] {
	return &ReviewBoard[entity.DefaultApplication]{
		name:   "default",
		items:  optimistic.NewSlice[entity.DefaultApplication](nil),
		queue:  optimistic.NewSlice[entity.DefaultApplication](nil),
		load:   api.ListDefaultApplications,
		status: func(a entity.DefaultApplication) entity.ApplicationStatus { return a.Status },
		id:     func(a entity.DefaultApplication) string { return a.ID },
		logger: logger,
	}
}

// NewRecoveryReviewBoard creates the board for recovery applications
func NewRecoveryReviewBoard(api port.RecoveryApplicationAPI, logger Logger) *ReviewBoard[entity.RecoveryApplication] {
	return &ReviewBoard[entity.RecoveryApplication]{
		name:   "recovery",
		items:  optimistic.NewSlice[entity.RecoveryApplication](nil),
		queue:  optimistic.NewSlice[entity.RecoveryApplication](nil),
		load:   api.ListRecoveryApplications,
		status: func(a entity.RecoveryApplication) entity.ApplicationStatus { return a.Status },
		id:     func(a entity.RecoveryApplication) string { return a.ID },
		logger: logger,
	}
}

// Name returns the application family the board shows
func (b *ReviewBoard[T]) Name() string {
	return b.name
}

// Load fetches the list for filter and remembers the filter for later refreshes.
// A load that finishes after a newer one has been applied leaves the board unchanged.
func (b *ReviewBoard[T]) Load(ctx context.Context, filter entity.ApplicationFilter) ([]T, error) {
	b.mu.Lock()
	seq := b.list.next()
	b.mu.Unlock()

	items, err := b.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.list.accept(seq) {
		b.filter = filter
		b.items.Replace(items)
	}
	return items, nil
}

// Refresh re-fetches the browsing list with the last used filter
func (b *ReviewBoard[T]) Refresh(ctx context.Context) error {
	b.mu.Lock()
	filter := b.filter
	b.mu.Unlock()

	_, err := b.Load(ctx, filter)
	return err
}

// RefreshPending re-fetches the review queue. The browsing filter is not used.
func (b *ReviewBoard[T]) RefreshPending(ctx context.Context) error {
	b.mu.Lock()
	seq := b.pending.next()
	b.mu.Unlock()

	items, err := b.load(ctx, entity.ApplicationFilter{Status: entity.StatusPending})
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending.accept(seq) {
		b.queue.Replace(items)
		b.queueLoaded = true
	}
	return nil
}

// refreshAfterMutation refreshes the browsing list, and the queue once it has
// been loaded, and only logs failures
func (b *ReviewBoard[T]) refreshAfterMutation(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil {
		b.logger.Warn("Failed to refresh application list", "board", b.name, "error", err)
	}

	b.mu.Lock()
	queueLoaded := b.queueLoaded
	b.mu.Unlock()
	if !queueLoaded {
		return
	}
	if err := b.RefreshPending(ctx); err != nil {
		b.logger.Warn("Failed to refresh review queue", "board", b.name, "error", err)
	}
}

// Items returns the last loaded browsing list
func (b *ReviewBoard[T]) Items() []T {
	return b.items.Snapshot()
}

// Pending returns the queued items that can still be audited
func (b *ReviewBoard[T]) Pending() []T {
	items := b.queue.Snapshot()
	out := make([]T, 0, len(items))
	for _, item := range items {
		if workflow.Auditable(b.status(item)) {
			out = append(out, item)
		}
	}
	return out
}

// PendingIDs returns the ids of Pending items
func (b *ReviewBoard[T]) PendingIDs() []string {
	pending := b.Pending()
	ids := make([]string, 0, len(pending))
	for _, item := range pending {
		ids = append(ids, b.id(item))
	}
	return ids
}
