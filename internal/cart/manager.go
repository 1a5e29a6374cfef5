// Package cart holds the canonical, observable cart state for the active
// session. It is not persisted: a restart or a successful order submission
// empties it.
package cart

import (
	"sync"

	"github.com/sirupsen/logrus"

	"delicia/internal/domain"
)

// Observer receives the post-mutation snapshot after every cart change.
type Observer func(domain.CartSnapshot)

type Manager struct {
	log logrus.FieldLogger

	mu        sync.Mutex
	lines     []domain.CartLine
	observers []Observer
}

func NewManager(logger logrus.FieldLogger) *Manager {
	return &Manager{log: logger}
}

// Subscribe registers an observer. Observers are invoked synchronously, once
// per mutation, with the snapshot taken while the mutation lock was held, so
// they never see a half-applied change.
func (m *Manager) Subscribe(fn Observer) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// Add puts quantity units of product into the cart, merging with an existing
// line for the same product. Non-positive quantities are a no-op: the cart
// never holds a zero or negative line.
func (m *Manager) Add(product domain.Product, quantity int) {
	if quantity <= 0 {
		m.log.Debugf("cart: ignoring add of %q with quantity %d", product.ID, quantity)
		return
	}

	m.mu.Lock()
	merged := false
	for i := range m.lines {
		if m.lines[i].ProductID == product.ID {
			m.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		m.lines = append(m.lines, domain.CartLine{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       quantity,
		})
	}
	snap := m.snapshotLocked()
	observers := m.observers
	m.mu.Unlock()

	m.log.Debugf("cart: added %dx %s, %d items total", quantity, product.ID, snap.ItemCount)
	notify(observers, snap)
}

// Remove drops the line for productID. Removing an absent product changes
// nothing and emits no signal.
func (m *Manager) Remove(productID string) {
	m.mu.Lock()
	removed := false
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		m.mu.Unlock()
		return
	}
	snap := m.snapshotLocked()
	observers := m.observers
	m.mu.Unlock()

	m.log.Debugf("cart: removed %s", productID)
	notify(observers, snap)
}

// Clear empties the cart. Used after a successful order submission.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.lines = nil
	snap := m.snapshotLocked()
	observers := m.observers
	m.mu.Unlock()

	m.log.Debug("cart: cleared")
	notify(observers, snap)
}

// ItemCount is the sum of all line quantities, not the number of distinct
// products.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, line := range m.lines {
		count += line.Quantity
	}
	return count
}

// TotalCents recomputes the cart total. Callers must re-read after any
// mutation rather than caching across one.
func (m *Manager) TotalCents() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, line := range m.lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}

// Snapshot captures an immutable copy of the cart with computed totals.
func (m *Manager) Snapshot() domain.CartSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() domain.CartSnapshot {
	lines := make([]domain.CartLine, len(m.lines))
	copy(lines, m.lines)
	snap := domain.CartSnapshot{Lines: lines}
	for _, line := range lines {
		snap.ItemCount += line.Quantity
		snap.TotalCents += line.UnitPriceCents * int64(line.Quantity)
	}
	return snap
}

func notify(observers []Observer, snap domain.CartSnapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
