// Package store is the authoritative in-memory source of truth for open
// positions and closed trades, guarded by a single sync.RWMutex (grounded
// on sim.Engine's mutex-protected account/trades map) and mirrored to disk
// through a JSON snapshot plus a SQLite tabular projection.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/evdnx/goldcore/position"
	"github.com/evdnx/goldcore/xerr"
)

const schemaVersion = 1

// Snapshot is the full persisted document shape: schema_version,
// open_positions, closed_trades, metadata, checksum. The checksum field is
// populated by the persistence layer and excluded from its own hash input.
type Snapshot struct {
	SchemaVersion int                          `json:"schema_version"`
	OpenPositions map[string]position.Position `json:"open_positions"`
	ClosedTrades  []position.ClosedTrade        `json:"closed_trades"`
	Metadata      map[string]string             `json:"metadata"`
	Checksum      string                        `json:"checksum"`
}

// Store is the single source of truth the controller commits every
// position mutation to. Every mutating method writes the snapshot through
// to disk before returning; writes are not batched.
type Store struct {
	mu sync.RWMutex

	open   map[string]*position.Position
	closed []position.ClosedTrade

	persist *persister
	flushMu sync.Mutex
}

// New builds a Store that persists its snapshot to dir (JSON + backup ring)
// and mirrors closed trades into the SQLite database at sqlitePath.
func New(dir, sqlitePath string) (*Store, error) {
	p, err := newPersister(dir, sqlitePath)
	if err != nil {
		return nil, err
	}
	return &Store{
		open:    make(map[string]*position.Position),
		persist: p,
	}, nil
}

// OpenPosition admits a newly-filled position into the open set.
func (s *Store) OpenPosition(p position.Position) error {
	if !p.Valid() {
		return fmt.Errorf("store: position %s fails invariant checks", p.Ticket)
	}
	s.mu.Lock()
	cp := p
	s.open[p.Ticket] = &cp
	s.mu.Unlock()
	return s.scheduleFlush()
}

// UpdatePositionTPState advances a position's ladder state and correlated
// fields (stop-loss, bars-held counters, state-change timestamp).
func (s *Store) UpdatePositionTPState(ticket string, newState position.TPState, newSL float64, barsAfterTP1, barsAfterTP2 int, changedAt time.Time) error {
	s.mu.Lock()
	p, ok := s.open[ticket]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("store: unknown ticket %s", ticket)
	}
	p.TPState = newState
	p.CurrentStopLoss = newSL
	p.BarsHeldAfterTP1 = barsAfterTP1
	p.BarsHeldAfterTP2 = barsAfterTP2
	p.TPStateChangedAt = changedAt
	valid := p.Valid()
	s.mu.Unlock()
	if !valid {
		return fmt.Errorf("store: position %s violates invariants after TP state update", ticket)
	}
	return s.scheduleFlush()
}

// UpdateTPExitMetadata records the exit-engine's verdict for the TP1/TP2
// waiting windows, without altering ladder state itself.
func (s *Store) UpdateTPExitMetadata(ticket, postTP1Decision, tp1ExitReason, postTP2Decision, tp2ExitReason string) error {
	s.mu.Lock()
	p, ok := s.open[ticket]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("store: unknown ticket %s", ticket)
	}
	p.PostTP1Decision = postTP1Decision
	p.TP1ExitReason = tp1ExitReason
	p.PostTP2Decision = postTP2Decision
	p.TP2ExitReason = tp2ExitReason
	s.mu.Unlock()
	return s.scheduleFlush()
}

// ClosePosition moves a position from the open set to the closed-trades
// log and forces an immediate flush (persistence contract, §6.2).
func (s *Store) ClosePosition(ticket string, exitPrice float64, exitReason string, exitTime time.Time) (position.ClosedTrade, error) {
	s.mu.Lock()
	p, ok := s.open[ticket]
	if !ok {
		s.mu.Unlock()
		return position.ClosedTrade{}, fmt.Errorf("store: unknown ticket %s", ticket)
	}
	ct := p.Close(exitPrice, exitReason, exitTime)
	delete(s.open, ticket)
	s.closed = append(s.closed, ct)
	s.mu.Unlock()

	if err := s.flush(); err != nil {
		return ct, err
	}
	return ct, nil
}

// GetAllPositions returns immutable snapshots of every open position.
func (s *Store) GetAllPositions() []position.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]position.Snapshot, 0, len(s.open))
	for _, p := range s.open {
		out = append(out, p.Snapshot())
	}
	return out
}

// GetClosedTrades returns the full closed-trade log.
func (s *Store) GetClosedTrades() []position.ClosedTrade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]position.ClosedTrade, len(s.closed))
	copy(out, s.closed)
	return out
}

// RealizedPnLSince sums Profit across closed trades whose ExitTime falls at
// or after since, for the risk policy's daily/weekly circuit breakers.
func (s *Store) RealizedPnLSince(since time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, ct := range s.closed {
		if !ct.ExitTime.Before(since) {
			total += ct.Profit
		}
	}
	return total
}

// Recover loads the most recent valid snapshot from disk, falling back
// through the backup ring on checksum mismatch (xerr.RecoveryError).
func (s *Store) Recover() error {
	snap, err := s.persist.load()
	if err != nil {
		return &xerr.RecoveryError{Reason: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = make(map[string]*position.Position, len(snap.OpenPositions))
	for ticket, p := range snap.OpenPositions {
		cp := p
		s.open[ticket] = &cp
	}
	s.closed = append([]position.ClosedTrade(nil), snap.ClosedTrades...)
	return nil
}

// Close flushes any pending state and releases the SQLite handle.
func (s *Store) Close() error {
	if err := s.flush(); err != nil {
		return err
	}
	return s.persist.close()
}

func (s *Store) scheduleFlush() error {
	// The store has no background ticker of its own, so a mutation's write
	// is performed synchronously here.
	return s.flush()
}

// Flush writes the current state to disk; the CLI commands call it on
// shutdown and at the end of a replay.
func (s *Store) Flush() error {
	return s.flush()
}

func (s *Store) flush() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.RLock()
	open := make(map[string]position.Position, len(s.open))
	for ticket, p := range s.open {
		open[ticket] = *p
	}
	closed := append([]position.ClosedTrade(nil), s.closed...)
	s.mu.RUnlock()

	snap := Snapshot{
		SchemaVersion: schemaVersion,
		OpenPositions: open,
		ClosedTrades:  closed,
		Metadata:      map[string]string{"flushed_at": time.Now().UTC().Format(time.RFC3339Nano)},
	}

	if err := s.persist.saveJSON(snap); err != nil {
		return err
	}
	return s.persist.mirrorClosedTrades(closed)
}
