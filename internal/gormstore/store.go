// Package gormstore persists catalog records in SQLite through GORM. It is
// the production implementation of catalog.Store: items and ownership rows
// live in separate tables related only by identifier equality, and the
// creation counter for user-created items survives restarts as a single row.
package gormstore

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/agentstation/utc"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brookstreetgames/amiibodex/pkg/catalog"
)

// itemRecord is the persisted shape of a catalog item.
type itemRecord struct {
	Identifier   string `gorm:"primaryKey;size:16"`
	Head         string `gorm:"size:8;index:idx_items_sort,priority:1"`
	Tail         string `gorm:"size:8;index:idx_items_sort,priority:2"`
	Name         string
	Character    string
	AmiiboSeries string
	GameSeries   string
	Type         string
	ImagePath    string
	Releases     datatypes.JSONMap
}

func (itemRecord) TableName() string { return "items" }

// ownershipRecord is the persisted shape of an ownership record. The
// primary key enforces at most one row per identifier.
type ownershipRecord struct {
	Identifier string `gorm:"primaryKey;size:16"`
	AcquiredAt time.Time
}

func (ownershipRecord) TableName() string { return "ownerships" }

// counterRecord holds the creation counter as a single row.
type counterRecord struct {
	ID    uint `gorm:"primaryKey"`
	Value uint64
}

func (counterRecord) TableName() string { return "counters" }

const counterRowID = 1

// Store implements catalog.Store on a GORM SQLite connection.
type Store struct {
	db *gorm.DB
}

// Compile-time interface check to ensure proper implementation.
var _ catalog.Store = (*Store)(nil)

// Open opens (or creates) a SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&itemRecord{}, &ownershipRecord{}, &counterRecord{}); err != nil {
		return nil, fmt.Errorf("migrating database %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

var memoryDBs atomic.Int64

// OpenMemory opens a fresh in-memory database, used by tests and the demo
// shell. Each call gets its own database.
func OpenMemory() (*Store, error) {
	n := memoryDBs.Add(1)
	return Open(fmt.Sprintf("file:amiibodex_mem_%d?mode=memory&cache=shared", n))
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return s.db
	}
	return s.db.WithContext(ctx)
}

// Items returns all persisted items sorted by (head, tail).
func (s *Store) Items(ctx context.Context) ([]*catalog.Item, error) {
	var records []itemRecord
	if err := s.conn(ctx).Order("head asc, tail asc").Find(&records).Error; err != nil {
		return nil, err
	}

	items := make([]*catalog.Item, len(records))
	for i, record := range records {
		items[i] = record.item()
	}
	return items, nil
}

// ReplaceItems persists a catalog snapshot in one transaction.
func (s *Store) ReplaceItems(ctx context.Context, items []*catalog.Item) error {
	records := make([]itemRecord, len(items))
	for i, item := range items {
		records[i] = newItemRecord(item)
	}

	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 500).Error
	})
}

// DeleteItems removes every item row in one batch. Ownership rows are left
// alone; orphans are tolerated.
func (s *Store) DeleteItems(ctx context.Context) error {
	return s.conn(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&itemRecord{}).Error
}

// CreateItem persists a locally created item and the advanced counter in the
// same transaction, so a failed item write never advances the counter and
// tail codes cannot repeat.
func (s *Store) CreateItem(ctx context.Context, item *catalog.Item, nextCounter uint64) error {
	record := newItemRecord(item)
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Save(&counterRecord{ID: counterRowID, Value: nextCounter}).Error
	})
}

// CreationCounter returns the persisted counter, zero for a fresh store.
func (s *Store) CreationCounter(ctx context.Context) (uint64, error) {
	var record counterRecord
	err := s.conn(ctx).First(&record, counterRowID).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Value, nil
}

// Ownerships returns all ownership records keyed by identifier.
func (s *Store) Ownerships(ctx context.Context) (map[string]*catalog.Ownership, error) {
	var records []ownershipRecord
	if err := s.conn(ctx).Find(&records).Error; err != nil {
		return nil, err
	}

	out := make(map[string]*catalog.Ownership, len(records))
	for _, record := range records {
		out[record.Identifier] = record.ownership()
	}
	return out, nil
}

// Ownership returns the record for an identifier, or (nil, nil) when the
// item is not owned.
func (s *Store) Ownership(ctx context.Context, identifier string) (*catalog.Ownership, error) {
	var record ownershipRecord
	err := s.conn(ctx).First(&record, "identifier = ?", identifier).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record.ownership(), nil
}

// AddOwnership persists a new ownership record. Inserting a duplicate
// identifier fails on the primary key.
func (s *Store) AddOwnership(ctx context.Context, ownership *catalog.Ownership) error {
	record := ownershipRecord{
		Identifier: ownership.Identifier,
		AcquiredAt: ownership.AcquiredAt.Time,
	}
	return s.conn(ctx).Create(&record).Error
}

// DeleteOwnership removes the record for an identifier.
func (s *Store) DeleteOwnership(ctx context.Context, identifier string) error {
	return s.conn(ctx).Delete(&ownershipRecord{Identifier: identifier}).Error
}

// newItemRecord maps a catalog item to its persisted shape.
func newItemRecord(item *catalog.Item) itemRecord {
	releases := make(datatypes.JSONMap, len(item.Releases))
	for region, date := range item.Releases {
		releases[region] = date
	}

	return itemRecord{
		Identifier:   item.Identifier(),
		Head:         item.Head,
		Tail:         item.Tail,
		Name:         item.Name,
		Character:    item.Character,
		AmiiboSeries: item.AmiiboSeries,
		GameSeries:   item.GameSeries,
		Type:         item.Type,
		ImagePath:    item.ImagePath,
		Releases:     releases,
	}
}

// item maps a persisted record back to a catalog item. Ownership is
// resolved separately by the manager.
func (r itemRecord) item() *catalog.Item {
	releases := make(map[string]string, len(r.Releases))
	for region, date := range r.Releases {
		if s, ok := date.(string); ok {
			releases[region] = s
		}
	}

	return &catalog.Item{
		Head:         r.Head,
		Tail:         r.Tail,
		Name:         r.Name,
		Character:    r.Character,
		AmiiboSeries: r.AmiiboSeries,
		GameSeries:   r.GameSeries,
		Type:         r.Type,
		ImagePath:    r.ImagePath,
		Releases:     releases,
	}
}

func (r ownershipRecord) ownership() *catalog.Ownership {
	return &catalog.Ownership{
		Identifier: r.Identifier,
		AcquiredAt: utc.Time{Time: r.AcquiredAt.UTC()},
	}
}
