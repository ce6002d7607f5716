// Package store persists analysis options per organization and country.
// Records are keyed (organization_id, country_code) with last-write-wins
// semantics; there is no history.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/marketlens/marketlens/pkg/models"
)

// ErrNotFound is returned when no record exists for the requested key.
var ErrNotFound = errors.New("options record not found")

// OptionsRecord is one saved analysis request. CreatedAt survives updates;
// UpdatedAt tracks the last write.
type OptionsRecord struct {
	Key            string                 `badgerhold:"key"`
	OrganizationID string                 `badgerholdIndex:"OrganizationID"`
	CountryCode    string                 `json:"country_code"`
	Request        models.AnalysisRequest `json:"request"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// OptionsStore is a badgerhold-backed store for OptionsRecord.
type OptionsStore struct {
	store *badgerhold.Store
	log   *logrus.Logger
	now   func() time.Time
}

// Open creates the store at path. With inMemory set, nothing touches disk;
// this is what the tests use.
func Open(path string, inMemory bool, log *logrus.Logger) (*OptionsStore, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	options := badgerhold.DefaultOptions
	if inMemory {
		options.Options = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
		options.Dir = path
		options.ValueDir = path
	}
	options.Logger = nil

	st, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening options store: %w", err)
	}
	log.WithField("path", path).Debug("options store opened")

	return &OptionsStore{store: st, log: log, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *OptionsStore) Close() error {
	return s.store.Close()
}

// recordKey builds the storage key. Country codes are stored uppercase so
// "kr" and "KR" address the same record.
func recordKey(org, country string) string {
	return strings.TrimSpace(org) + "|" + strings.ToUpper(strings.TrimSpace(country))
}

// Save upserts the request for (org, country). The request is sanitized
// before it is written; the stored copy is what a later Get returns.
func (s *OptionsStore) Save(org, country string, req models.AnalysisRequest) (*OptionsRecord, error) {
	req.OrganizationID = org
	req.CountryCode = country
	clean := req.Sanitized()

	key := recordKey(org, clean.CountryCode)
	now := s.now()

	rec := OptionsRecord{
		Key:            key,
		OrganizationID: strings.TrimSpace(org),
		CountryCode:    strings.ToUpper(clean.CountryCode),
		Request:        clean,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var existing OptionsRecord
	if err := s.store.Get(key, &existing); err == nil {
		rec.CreatedAt = existing.CreatedAt
	}

	if err := s.store.Upsert(key, &rec); err != nil {
		return nil, fmt.Errorf("saving options for %q: %w", key, err)
	}
	return &rec, nil
}

// Get returns the saved record for (org, country), or ErrNotFound.
func (s *OptionsStore) Get(org, country string) (*OptionsRecord, error) {
	var rec OptionsRecord
	err := s.store.Get(recordKey(org, country), &rec)
	if err == badgerhold.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading options for %q: %w", recordKey(org, country), err)
	}
	return &rec, nil
}

// ListByOrg returns every saved record for one organization, newest first.
func (s *OptionsStore) ListByOrg(org string) ([]OptionsRecord, error) {
	var recs []OptionsRecord
	query := badgerhold.Where("OrganizationID").Eq(strings.TrimSpace(org)).Index("OrganizationID")
	if err := s.store.Find(&recs, query.SortBy("UpdatedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("listing options for org %q: %w", org, err)
	}
	return recs, nil
}

// Delete removes the record for (org, country). Deleting a missing record
// returns ErrNotFound.
func (s *OptionsStore) Delete(org, country string) error {
	err := s.store.Delete(recordKey(org, country), OptionsRecord{})
	if err == badgerhold.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting options for %q: %w", recordKey(org, country), err)
	}
	return nil
}
