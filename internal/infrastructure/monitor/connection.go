package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pinger is anything whose reachability can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor periodically pings the document store and caches the result.
type Monitor struct {
	store  Pinger
	driver string

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(store Pinger, driver string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		store:    store,
		driver:   driver,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
	m.status.Driver = driver

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = m.cron.AddFunc(schedule, m.Refresh)
	return m
}

// Start performs an immediate check and launches the schedule.
func (m *Monitor) Start() {
	m.Refresh()
	m.cron.Start()
}

// Stop halts the schedule and waits for a running check to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh pings the store once and records the outcome.
func (m *Monitor) Refresh() {
	status := Status{
		Driver:    m.driver,
		LastCheck: time.Now(),
	}
	if err := m.checkStore(); err != nil {
		status.LastError = err.Error()
	} else {
		status.Storage = true
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.Storage && !status.Storage {
		m.logger.Warn("storage went offline", zap.String("driver", m.driver), zap.String("error", status.LastError))
	} else if !previous.Storage && status.Storage && !previous.LastCheck.IsZero() {
		m.logger.Info("storage back online", zap.String("driver", m.driver))
	}
}

func (m *Monitor) checkStore() error {
	if m.store == nil {
		return fmt.Errorf("no store configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.store.Ping(ctx)
}
