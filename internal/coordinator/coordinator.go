package coordinator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/bessa"
	"github.com/zenzmatz/homeassistant-bessa-lunch/internal/day"
)

// APIClient is what the coordinator needs from the Bessa client.
type APIClient interface {
	TodayOrders(ctx context.Context) ([]bessa.Order, error)
	Menu(ctx context.Context, date string) ([]bessa.MenuItem, error)
	CancelOrder(ctx context.Context, orderID int) bool
}

// Coordinator runs the periodic refresh cycle and publishes the latest
// snapshot for readers. A failed cycle keeps the previous snapshot in
// place (stale but available) and records the failure for /health.
type Coordinator struct {
	client   APIClient
	interval time.Duration
	now      func() time.Time

	// refreshMu serializes cycles: the ticker and an out-of-cycle
	// refresh after a cancellation must never run concurrently.
	refreshMu sync.Mutex

	mu       sync.RWMutex
	snapshot *day.Snapshot
	lastErr  error
}

func New(client APIClient, interval time.Duration) *Coordinator {
	return &Coordinator{
		client:   client,
		interval: interval,
		now:      time.Now,
	}
}

// Refresh runs one full fetch cycle: the recent orders, then one menu
// per upcoming date, sequentially. The snapshot is only replaced once
// every fetch (or its empty-on-failure fallback) has completed.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	cycle := uuid.New().String()
	log.Printf("REFRESH_START cycle=%s", cycle)

	orders, err := c.client.TodayOrders(ctx)
	if err != nil {
		c.recordFailure(err)
		log.Printf("REFRESH_FAILED cycle=%s err=%v", cycle, err)
		return fmt.Errorf("update failed: %w", err)
	}

	today := c.now()
	menus := make(map[string][]bessa.MenuItem, day.Window)
	for offset := 0; offset < day.Window; offset++ {
		date := day.TargetDate(today, offset)
		items, err := c.client.Menu(ctx, date)
		if err != nil {
			c.recordFailure(err)
			log.Printf("REFRESH_FAILED cycle=%s date=%s err=%v", cycle, date, err)
			return fmt.Errorf("update failed: %w", err)
		}
		menus[date] = items
	}

	snap := day.Snapshot{
		Orders:    orders,
		Menus:     menus,
		FetchedAt: c.now(),
	}

	c.mu.Lock()
	c.snapshot = &snap
	c.lastErr = nil
	c.mu.Unlock()

	log.Printf("REFRESH_DONE cycle=%s orders=%d", cycle, len(orders))
	return nil
}

// Run refreshes on a fixed interval until the context is cancelled.
// Errors are already recorded and logged by Refresh; the loop itself
// never stops on one.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("REFRESH_STOPPED")
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

// Current returns the published snapshot, or false before the first
// successful refresh.
func (c *Coordinator) Current() (day.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return day.Snapshot{}, false
	}
	return *c.snapshot, true
}

// Healthy reports whether a snapshot exists and the last cycle worked.
func (c *Coordinator) Healthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot != nil && c.lastErr == nil
}

// LastError returns the failure recorded by the most recent cycle, if
// any.
func (c *Coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Cancel cancels one order and, on success, refreshes immediately so
// read models reflect the cancellation before the next tick. A failed
// follow-up refresh is only logged: the cancellation itself stands.
func (c *Coordinator) Cancel(ctx context.Context, orderID int) bool {
	if !c.client.CancelOrder(ctx, orderID) {
		return false
	}
	if err := c.Refresh(ctx); err != nil {
		log.Printf("CANCEL_REFRESH_FAILED order=%d err=%v", orderID, err)
	}
	return true
}

func (c *Coordinator) recordFailure(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
