// Package persist bridges settled cart states to the key-value store.
// Loads happen once at startup; saves are best-effort and asynchronous —
// a failed write never reaches the caller of a cart operation.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amritgyawali/lenskart/internal/domain"
	"github.com/amritgyawali/lenskart/internal/storage"
)

const writeTimeout = time.Second

// Synchronizer owns one cart blob in the store, scoped to a session.
type Synchronizer struct {
	store storage.Store
	key   string
	log   logrus.FieldLogger

	mu      sync.Mutex
	pending *domain.Cart
	writing bool
	wg      sync.WaitGroup
}

func New(store storage.Store, sessionID string, log logrus.FieldLogger) *Synchronizer {
	return &Synchronizer{
		store: store,
		key:   cartKey(sessionID),
		log:   log.WithField("key", cartKey(sessionID)),
	}
}

// Load reads the persisted cart. Any failure — missing key, storage
// error, malformed blob — degrades to the empty default and is never
// raised upward.
func (s *Synchronizer) Load(ctx context.Context) domain.Cart {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Cart{}
	}
	if err != nil {
		s.log.WithError(err).Warn("cart load failed, starting empty")
		return domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.log.WithError(err).Warn("stored cart is malformed, discarding")
		if err := s.store.Remove(ctx, s.key); err != nil {
			s.log.WithError(err).Warn("could not discard malformed cart")
		}
		return domain.Cart{}
	}
	return cart
}

// SaveAsync writes the persisted subset in the background. The in-memory
// cart already settled, so a write failure is only logged.
//
// Saves are handed to a single drain goroutine: snapshots settle in the
// store in dispatch order, and a burst of mutations coalesces into a
// write of the newest snapshot.
func (s *Synchronizer) SaveAsync(cart domain.Cart) {
	s.mu.Lock()
	s.pending = &cart
	if s.writing {
		s.mu.Unlock()
		return
	}
	s.writing = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.drain()
}

// drain writes pending snapshots until none remain. At most one drain
// runs at a time, so an older snapshot can never land after a newer one.
func (s *Synchronizer) drain() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		next := s.pending
		s.pending = nil
		if next == nil {
			s.writing = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := s.save(ctx, *next); err != nil {
			s.log.WithError(err).Error("cart save failed")
		}
		cancel()
	}
}

// Wait blocks until in-flight writes finish. Used at shutdown; writes
// are never cancelled, merely awaited.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

func (s *Synchronizer) save(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	return s.store.Set(ctx, s.key, data)
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
