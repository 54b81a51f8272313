package risk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// SchemaVersion is the current snapshot format. Version history:
//
//	0: legacy, a flat map of product_id -> position, no capital state
//	1: "_metadata" block with capital counters, no version field
//	2: same shape as 1 plus an explicit schema_version field
const SchemaVersion = 2

// State is the durable slice of a ledger: capital counters plus open
// positions keyed by product.
type State struct {
	CurrentCapital float64
	InitialCapital float64
	DailyPnL       float64
	DailyTrades    int
	TotalDrawdown  float64
	Positions      map[string]*Position
}

// Store persists ledger state as a human-readable JSON snapshot.
type Store struct {
	path string
	log  *zap.SugaredLogger
}

// NewStore creates a store for the given snapshot path, creating the parent
// directory if needed.
func NewStore(path string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	return &Store{path: path, log: log}, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

type metadata struct {
	SchemaVersion  int       `json:"schema_version"`
	CurrentCapital float64   `json:"current_capital"`
	InitialCapital float64   `json:"initial_capital"`
	DailyPnL       float64   `json:"daily_pnl"`
	DailyTrades    int       `json:"daily_trades"`
	TotalDrawdown  float64   `json:"total_drawdown"`
	LastUpdated    time.Time `json:"last_updated"`
}

type positionRecord struct {
	ProductID  string    `json:"product_id"`
	Quantity   float64   `json:"quantity"`
	EntryPrice float64   `json:"entry_price"`
	EntryFee   float64   `json:"entry_fee"`
	EntryTime  time.Time `json:"entry_time"`
}

type snapshot struct {
	Metadata  metadata                  `json:"_metadata"`
	Positions map[string]positionRecord `json:"positions"`
}

// Save writes the full state atomically (temp file + rename) so a crash
// mid-write never leaves a truncated snapshot behind.
func (s *Store) Save(st *State) error {
	snap := snapshot{
		Metadata: metadata{
			SchemaVersion:  SchemaVersion,
			CurrentCapital: st.CurrentCapital,
			InitialCapital: st.InitialCapital,
			DailyPnL:       st.DailyPnL,
			DailyTrades:    st.DailyTrades,
			TotalDrawdown:  st.TotalDrawdown,
			LastUpdated:    time.Now(),
		},
		Positions: make(map[string]positionRecord, len(st.Positions)),
	}
	for id, pos := range st.Positions {
		snap.Positions[id] = positionRecord{
			ProductID:  pos.ProductID,
			Quantity:   pos.Quantity,
			EntryPrice: pos.EntryPrice,
			EntryFee:   pos.EntryFee,
			EntryTime:  pos.OpenTime,
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return writeFileAtomic(s.path, data, 0644)
}

// Load reads the snapshot, migrating older formats forward. A missing file
// returns (nil, nil): the caller starts fresh. partialLevels sizes the
// ratchet flags, which are not persisted and reset on restart.
func (s *Store) Load(initialCapital float64, partialLevels int) (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	switch version := detectSchemaVersion(data); version {
	case 0:
		return s.migrateLegacy(data, initialCapital, partialLevels)
	case 1, 2:
		return s.loadCurrent(data, partialLevels)
	default:
		return nil, fmt.Errorf("unsupported schema version %d", version)
	}
}

// detectSchemaVersion sniffs the on-disk format. Files without a _metadata
// block are the legacy flat position map (version 0); files with metadata but
// no schema_version field predate versioning (version 1).
func detectSchemaVersion(data []byte) int {
	var probe struct {
		Metadata *struct {
			SchemaVersion int `json:"schema_version"`
		} `json:"_metadata"`
	}
	if err := json.Unmarshal(data, &probe); err != nil || probe.Metadata == nil {
		return 0
	}
	if probe.Metadata.SchemaVersion == 0 {
		return 1
	}
	return probe.Metadata.SchemaVersion
}

func (s *Store) loadCurrent(data []byte, partialLevels int) (*State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}

	st := &State{
		CurrentCapital: snap.Metadata.CurrentCapital,
		InitialCapital: snap.Metadata.InitialCapital,
		DailyPnL:       snap.Metadata.DailyPnL,
		DailyTrades:    snap.Metadata.DailyTrades,
		TotalDrawdown:  snap.Metadata.TotalDrawdown,
		Positions:      restorePositions(snap.Positions, partialLevels),
	}
	return st, nil
}

// migrateLegacy handles the version-0 flat map: back up the original file,
// reconstruct available capital as initial capital minus the value locked in
// positions, and immediately rewrite the snapshot in the current schema.
func (s *Store) migrateLegacy(data []byte, initialCapital float64, partialLevels int) (*State, error) {
	var records map[string]positionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse legacy state file: %w", err)
	}

	backup := s.path + ".backup"
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return nil, fmt.Errorf("write migration backup: %w", err)
	}
	s.log.Warnw("legacy position format detected, migrating",
		"backup", backup)

	var locked float64
	for _, rec := range records {
		locked += rec.Quantity*rec.EntryPrice + rec.EntryFee
	}

	st := &State{
		CurrentCapital: initialCapital - locked,
		InitialCapital: initialCapital,
		Positions:      restorePositions(records, partialLevels),
	}

	if err := s.Save(st); err != nil {
		return nil, fmt.Errorf("rewrite migrated state: %w", err)
	}
	s.log.Infow("migrated legacy state",
		"initial_capital", initialCapital,
		"locked_in_positions", locked,
		"available", st.CurrentCapital)

	return st, nil
}

func restorePositions(records map[string]positionRecord, partialLevels int) map[string]*Position {
	positions := make(map[string]*Position, len(records))
	for id, rec := range records {
		if rec.ProductID == "" {
			rec.ProductID = id
		}
		positions[id] = newPosition(rec.ProductID, rec.Quantity, rec.EntryPrice, rec.EntryFee, rec.EntryTime, partialLevels)
	}
	return positions
}

// writeFileAtomic writes data via a temp file and rename in the same
// directory, syncing before the rename.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".positions-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
