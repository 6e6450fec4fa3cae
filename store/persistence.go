package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/evdnx/goldcore/position"
	"github.com/evdnx/goldcore/xerr"
)

const backupRingSize = 10

// persister owns the on-disk side of the store: an atomically-written JSON
// snapshot with a SHA-256 checksum and a 10-slot backup ring (grounded on
// chidi150c-coinbase/trader.go's saveStateFrom temp-write→rename idiom,
// extended here with fsync and checksumming), plus a SQLite tabular mirror
// of closed trades (grounded on journal/schema.go + journal/sqlite.go).
type persister struct {
	dir        string
	snapFile   string
	backupDir  string
	db         *sql.DB
}

func newPersister(dir, sqlitePath string) (*persister, error) {
	backupDir := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create backup dir: %w", err)
	}

	db, err := sql.Open("sqlite3", sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if _, err := db.Exec(tradesSchema); err != nil {
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &persister{
		dir:       dir,
		snapFile:  filepath.Join(dir, "snapshot.json"),
		backupDir: backupDir,
		db:        db,
	}, nil
}

func (p *persister) close() error {
	return p.db.Close()
}

// saveJSON writes snap atomically (temp file → fsync → rename) and rotates
// a timestamped copy into the backup ring, evicting the oldest entry once
// the ring exceeds backupRingSize.
func (p *persister) saveJSON(snap Snapshot) error {
	snap.Checksum = ""
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &xerr.PersistenceError{Op: "marshal", Err: err}
	}
	sum := sha256.Sum256(body)
	snap.Checksum = hex.EncodeToString(sum[:])

	final, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &xerr.PersistenceError{Op: "marshal-checksummed", Err: err}
	}

	tmp := p.snapFile + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &xerr.PersistenceError{Op: "open-temp", Err: err}
	}
	if _, err := f.Write(final); err != nil {
		f.Close()
		return &xerr.PersistenceError{Op: "write-temp", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &xerr.PersistenceError{Op: "fsync", Err: err}
	}
	if err := f.Close(); err != nil {
		return &xerr.PersistenceError{Op: "close-temp", Err: err}
	}
	if err := os.Rename(tmp, p.snapFile); err != nil {
		return &xerr.PersistenceError{Op: "rename", Err: err}
	}

	return p.rotateBackup(final)
}

func (p *persister) rotateBackup(body []byte) error {
	name := filepath.Join(p.backupDir, fmt.Sprintf("snapshot-%d.json", time.Now().UnixNano()))
	if err := os.WriteFile(name, body, 0o644); err != nil {
		return &xerr.PersistenceError{Op: "write-backup", Err: err}
	}

	entries, err := os.ReadDir(p.backupDir)
	if err != nil {
		return &xerr.PersistenceError{Op: "list-backups", Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "snapshot-") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for len(names) > backupRingSize {
		oldest := names[0]
		names = names[1:]
		_ = os.Remove(filepath.Join(p.backupDir, oldest))
	}
	return nil
}

// load reads the primary snapshot and verifies its checksum; on mismatch or
// read failure it falls back to the newest valid backup in the ring.
func (p *persister) load() (Snapshot, error) {
	if snap, err := p.readAndVerify(p.snapFile); err == nil {
		return snap, nil
	}

	entries, err := os.ReadDir(p.backupDir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("primary snapshot invalid and backup dir unreadable: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "snapshot-") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	for _, n := range names {
		if snap, err := p.readAndVerify(filepath.Join(p.backupDir, n)); err == nil {
			return snap, nil
		}
	}
	return Snapshot{}, fmt.Errorf("no valid snapshot found in primary or backup ring")
}

func (p *persister) readAndVerify(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, err
	}

	want := snap.Checksum
	snap.Checksum = ""
	recomputed, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Snapshot{}, err
	}
	sum := sha256.Sum256(recomputed)
	got := hex.EncodeToString(sum[:])
	if got != want {
		return Snapshot{}, fmt.Errorf("checksum mismatch for %s", path)
	}
	snap.Checksum = want
	return snap, nil
}

const tradesSchema = `
CREATE TABLE IF NOT EXISTS trades (
    ticket       TEXT PRIMARY KEY,
    entry_time   TEXT NOT NULL,
    exit_time    TEXT NOT NULL,
    entry_price  REAL NOT NULL,
    exit_price   REAL NOT NULL,
    profit       REAL NOT NULL,
    volume       REAL NOT NULL,
    exit_reason  TEXT NOT NULL,
    tp1_price    REAL,
    tp2_price    REAL,
    tp3_price    REAL
);
`

// mirrorClosedTrades upserts every closed trade into the SQLite table,
// called from the same Store.flush call that writes the JSON snapshot,
// after the rename succeeds (Open Question 2: JSON is authoritative).
func (p *persister) mirrorClosedTrades(trades []position.ClosedTrade) error {
	tx, err := p.db.Begin()
	if err != nil {
		return &xerr.PersistenceError{Op: "sqlite-begin", Err: err}
	}
	for _, t := range trades {
		_, err := tx.Exec(`
			INSERT INTO trades
			(ticket, entry_time, exit_time, entry_price, exit_price, profit, volume, exit_reason, tp3_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(ticket) DO UPDATE SET
				exit_time=excluded.exit_time,
				exit_price=excluded.exit_price,
				profit=excluded.profit,
				exit_reason=excluded.exit_reason`,
			t.Ticket, t.EntryTime.UTC().Format(time.RFC3339Nano), t.ExitTime.UTC().Format(time.RFC3339Nano),
			t.EntryPrice, t.ExitPrice, t.Profit, t.Volume, t.ExitReason, t.TP3PriceAtClose,
		)
		if err != nil {
			tx.Rollback()
			return &xerr.PersistenceError{Op: "sqlite-upsert", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &xerr.PersistenceError{Op: "sqlite-commit", Err: err}
	}
	return nil
}
