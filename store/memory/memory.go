// Package memory provides the in-memory shift.TxStore. Records live for the
// life of the process.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/shift-calendar/generic"
	"github.com/warp/shift-calendar/shift"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (default backend)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[string]shift.Record // keyed by TimePoint.String()
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]shift.Record)}
}

// Put upserts a record.
func (m *Memory) Put(_ context.Context, rec shift.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(rec)
	return nil
}

func (m *Memory) putLocked(rec shift.Record) {
	m.records[rec.Date.String()] = rec
}

func (m *Memory) Get(_ context.Context, date generic.TimePoint) (*shift.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(date), nil
}

func (m *Memory) getLocked(date generic.TimePoint) *shift.Record {
	rec, ok := m.records[date.String()]
	if !ok {
		return nil
	}
	return &rec
}

func (m *Memory) LoadRange(_ context.Context, from, to generic.TimePoint) ([]shift.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadRangeLocked(from, to), nil
}

func (m *Memory) loadRangeLocked(from, to generic.TimePoint) []shift.Record {
	var result []shift.Record
	for _, rec := range m.records {
		if from.BeforeOrEqual(rec.Date) && rec.Date.BeforeOrEqual(to) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

func (m *Memory) DeleteRange(_ context.Context, from, to generic.TimePoint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteRangeLocked(from, to), nil
}

func (m *Memory) deleteRangeLocked(from, to generic.TimePoint) int {
	n := 0
	for k, rec := range m.records {
		if from.BeforeOrEqual(rec.Date) && rec.Date.BeforeOrEqual(to) {
			delete(m.records, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(shift.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()
	view := &txMemoryView{parent: tm.Memory}

	if err := fn(view); err != nil {
		tm.records = snapshot
		return err
	}
	return nil
}

func (tm *TxMemory) snapshot() map[string]shift.Record {
	cp := make(map[string]shift.Record, len(tm.records))
	for k, v := range tm.records {
		cp[k] = v
	}
	return cp
}

// txMemoryView runs against the parent while WithTx holds its lock.
type txMemoryView struct {
	parent *Memory
}

func (tv *txMemoryView) Put(_ context.Context, rec shift.Record) error {
	tv.parent.putLocked(rec)
	return nil
}

func (tv *txMemoryView) Get(_ context.Context, date generic.TimePoint) (*shift.Record, error) {
	return tv.parent.getLocked(date), nil
}

func (tv *txMemoryView) LoadRange(_ context.Context, from, to generic.TimePoint) ([]shift.Record, error) {
	return tv.parent.loadRangeLocked(from, to), nil
}

func (tv *txMemoryView) DeleteRange(_ context.Context, from, to generic.TimePoint) (int, error) {
	return tv.parent.deleteRangeLocked(from, to), nil
}
