package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/default-desk/internal/application/port"
	"go.uber.org/zap"
)

// PendingSource is a review queue that can be re-fetched
type PendingSource interface {
	Name() string
	RefreshPending(ctx context.Context) error
	PendingIDs() []string
}

// PendingPoller refreshes review boards on a ticker and announces applications
// that became pending since the previous poll. The first poll only records a baseline.
type PendingPoller struct {
	sources  []PendingSource
	notifier port.Notifier
	logger   *zap.Logger

	pollInterval time.Duration
	pollTimeout  time.Duration

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
	seen      map[string]map[string]bool
}

// NewPendingPoller creates a poller over sources
func NewPendingPoller(sources []PendingSource, notifier port.Notifier, interval time.Duration, logger *zap.Logger) *PendingPoller {
	timeout := interval
	if timeout <= 0 || timeout > 30*time.Second {
		timeout = 30 * time.Second
	}
	return &PendingPoller{
		sources:      sources,
		notifier:     notifier,
		logger:       logger,
		pollInterval: interval,
		pollTimeout:  timeout,
		seen:         make(map[string]map[string]bool),
	}
}

// Start starts the polling loop
func (p *PendingPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("pending poller is already running")
	}
	if p.pollInterval <= 0 {
		return fmt.Errorf("pending poller interval must be positive, got %s", p.pollInterval)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.isRunning = true

	p.logger.Info("PendingPoller started",
		zap.Duration("poll_interval", p.pollInterval),
		zap.Int("sources", len(p.sources)))

	go p.pollLoop(loopCtx, p.done)

	return nil
}

// Stop stops the polling loop and waits for it to exit
func (p *PendingPoller) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	p.cancel()
	done := p.done
	p.mu.Unlock()

	<-done
	p.logger.Info("PendingPoller stopped")
}

// Name returns the worker name for identification
func (p *PendingPoller) Name() string {
	return "PendingPoller"
}

func (p *PendingPoller) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce refreshes every source and returns the newly pending ids per source
func (p *PendingPoller) pollOnce(ctx context.Context) map[string][]string {
	fresh := make(map[string][]string)

	for _, source := range p.sources {
		pollCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
		err := source.RefreshPending(pollCtx)
		cancel()
		if err != nil {
			p.logger.Warn("Failed to refresh applications",
				zap.String("source", source.Name()),
				zap.Error(err))
			continue
		}

		ids := p.diff(source.Name(), source.PendingIDs())
		if len(ids) == 0 {
			continue
		}
		fresh[source.Name()] = ids

		p.logger.Info("New pending applications",
			zap.String("source", source.Name()),
			zap.Strings("ids", ids))

		if p.notifier != nil {
			text := fmt.Sprintf("%d 条新的%s申请待审核：%s", len(ids), sourceLabel(source.Name()), strings.Join(ids, "，"))
			if err := p.notifier.Notify(ctx, text); err != nil {
				p.logger.Warn("Failed to notify reviewers", zap.Error(err))
			}
		}
	}

	return fresh
}

// diff records ids as seen and returns those not seen before.
// On the first call for a source everything is recorded and nothing is returned.
func (p *PendingPoller) diff(source string, ids []string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	previous, known := p.seen[source]
	current := make(map[string]bool, len(ids))
	var fresh []string
	for _, id := range ids {
		current[id] = true
		if known && !previous[id] {
			fresh = append(fresh, id)
		}
	}
	p.seen[source] = current
	return fresh
}

func sourceLabel(name string) string {
	switch name {
	case "default":
		return "违约认定"
	case "recovery":
		return "违约重生"
	}
	return name
}
