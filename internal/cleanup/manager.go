// Package cleanup removes the stored photos of deleted listings in the background.
package cleanup

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"car-market/internal/storage"
)

// Manager purges listing photos without blocking the request that deleted the listing.
type Manager interface {
	Start(ctx context.Context)
	Shutdown()
	Enqueue(listingID string)
}

type Config struct {
	MaxConcurrent int
	Timeout       time.Duration
	Location      storage.Location
	Logger        *logrus.Logger
}

type manager struct {
	cfg     Config
	storage storage.Service

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	active map[string]struct{}
}

func NewManager(cfg Config, store storage.Service) Manager {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &manager{
		cfg:     cfg,
		storage: store,
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		active:  make(map[string]struct{}),
	}
}

func (m *manager) Start(ctx context.Context) {
	m.mu.Lock()
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()
	m.cfg.Logger.Infof("photo cleanup started, max concurrent: %d", m.cfg.MaxConcurrent)
}

func (m *manager) Shutdown() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
	m.cfg.Logger.Info("photo cleanup stopped")
}

func (m *manager) Enqueue(listingID string) {
	logger := m.cfg.Logger.WithField("listing_id", listingID)
	if m.storage == nil || !m.cfg.Location.Enabled() {
		return
	}

	m.mu.Lock()
	ctx := m.ctx
	if ctx == nil || ctx.Err() != nil {
		m.mu.Unlock()
		logger.Warn("photo cleanup not running, skipping purge")
		return
	}
	if _, busy := m.active[listingID]; busy {
		m.mu.Unlock()
		return
	}
	m.active[listingID] = struct{}{}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer m.unregister(listingID)

		m.sem <- struct{}{}
		defer func() { <-m.sem }()
		// accepted purges finish even after Shutdown starts
		m.purge(context.WithoutCancel(ctx), listingID)
	}()
}

func (m *manager) unregister(listingID string) {
	m.mu.Lock()
	delete(m.active, listingID)
	m.mu.Unlock()
}

func (m *manager) purge(ctx context.Context, listingID string) {
	logger := m.cfg.Logger.WithField("listing_id", listingID)

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	prefix := m.cfg.Location.ListingPrefix(listingID)
	n, err := m.storage.DeletePrefix(ctx, m.cfg.Location.Bucket, prefix)
	if err != nil {
		logger.WithField("prefix", prefix).Errorf("purge listing photos: %v", err)
		return
	}
	logger.Debugf("purged %d photo objects", n)
}
