package pipeline

import (
	"fmt"
	"log"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/storage"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/util"
)

// Store is the cache and dedup gateway in front of the persisted confirmed
// and pending collections. Confirmed rows are indexed by the normalized
// master-side product, pending rows by the normalized pair key; both caches
// live for the process and are rebuilt explicitly at run boundaries.
type Store struct {
	db *storage.DB

	confirmed    map[string]internal.ConfirmedMatch
	confirmedAll []internal.ConfirmedMatch
	pending      map[string]internal.PendingMatch
}

func NewStore(db *storage.DB) *Store {
	return &Store{
		db:        db,
		confirmed: map[string]internal.ConfirmedMatch{},
		pending:   map[string]internal.PendingMatch{},
	}
}

func pendingKey(productA, productB string) string {
	return util.Normalize(productA) + "||" + util.Normalize(productB)
}

// PreloadConfirmed rebuilds the confirmed index from the persisted store.
// Must run before any scoring and again after a run commits new rows. A read
// failure degrades to an empty cache rather than aborting the caller.
func (s *Store) PreloadConfirmed() error {
	rows, err := s.db.ListConfirmed()
	s.confirmed = make(map[string]internal.ConfirmedMatch, len(rows))
	s.confirmedAll = rows
	if err != nil {
		log.Printf("preload confirmed: %v", err)
		return err
	}
	for _, m := range rows {
		s.confirmed[util.Normalize(m.ProductB)] = m
	}
	return nil
}

func (s *Store) Confirmed() []internal.ConfirmedMatch {
	return s.confirmedAll
}

func (s *Store) LookupConfirmed(masterProduct string) *internal.ConfirmedMatch {
	if m, ok := s.confirmed[util.Normalize(masterProduct)]; ok {
		return &m
	}
	return nil
}

// SaveConfirmed inserts without duplicate guarding: one-to-one enforcement
// is the orchestrator's job, and the lookup cache is refreshed only by
// PreloadConfirmed so mid-run scoring keeps its snapshot.
func (s *Store) SaveConfirmed(productA, productB string, priceA, priceB, similarity float64) (internal.ConfirmedMatch, error) {
	return s.db.InsertConfirmed(internal.ConfirmedMatch{
		ProductA:   productA,
		ProductB:   productB,
		PriceA:     priceA,
		PriceB:     priceB,
		Similarity: similarity,
	})
}

// SavePending dedups by pair key: cache first, then the persisted store (a
// pending row can survive a cache reset), then insert.
func (s *Store) SavePending(productA, productB string, priceA, priceB, similarity float64) (internal.PendingMatch, error) {
	key := pendingKey(productA, productB)
	if cached, ok := s.pending[key]; ok {
		return cached, nil
	}

	existing, err := s.db.FindPending(productA, productB, internal.PendingStatus)
	if err != nil {
		log.Printf("check pending: %v", err)
	}
	if existing != nil {
		s.pending[key] = *existing
		return *existing, nil
	}

	inserted, err := s.db.InsertPending(internal.PendingMatch{
		ProductA:   productA,
		ProductB:   productB,
		PriceA:     priceA,
		PriceB:     priceB,
		Similarity: similarity,
		Status:     internal.PendingStatus,
	})
	if err != nil {
		return internal.PendingMatch{}, err
	}
	s.pending[key] = inserted
	return inserted, nil
}

func (s *Store) PreloadPending() error {
	rows, err := s.db.ListPendingByStatus(internal.PendingStatus)
	s.pending = make(map[string]internal.PendingMatch, len(rows))
	if err != nil {
		log.Printf("preload pending: %v", err)
		return err
	}
	for _, m := range rows {
		s.pending[pendingKey(m.ProductA, m.ProductB)] = m
	}
	return nil
}

// ClearPending empties the persisted pending collection and the cache; the
// pending set models only the current run's open questions.
func (s *Store) ClearPending() error {
	err := s.db.DeleteAllPending()
	if err != nil {
		log.Printf("clear pending: %v", err)
	}
	s.pending = map[string]internal.PendingMatch{}
	return err
}

// Promote deletes a pending row and creates the equivalent confirmed row.
func (s *Store) Promote(id int64) (internal.ConfirmedMatch, error) {
	row, err := s.db.GetPendingByID(id)
	if err != nil {
		return internal.ConfirmedMatch{}, err
	}
	if row == nil {
		return internal.ConfirmedMatch{}, fmt.Errorf("pending match not found: id=%d", id)
	}
	if err := s.db.DeletePending(id); err != nil {
		return internal.ConfirmedMatch{}, err
	}
	delete(s.pending, pendingKey(row.ProductA, row.ProductB))

	confirmed, err := s.SaveConfirmed(row.ProductA, row.ProductB, row.PriceA, row.PriceB, row.Similarity)
	if err != nil {
		return internal.ConfirmedMatch{}, err
	}
	s.confirmed[util.Normalize(confirmed.ProductB)] = confirmed
	s.confirmedAll = append(s.confirmedAll, confirmed)
	return confirmed, nil
}

// Annul deletes a confirmed row and re-creates it as pending for review.
func (s *Store) Annul(id int64) (internal.PendingMatch, error) {
	row, err := s.db.GetConfirmedByID(id)
	if err != nil {
		return internal.PendingMatch{}, err
	}
	if row == nil {
		return internal.PendingMatch{}, fmt.Errorf("confirmed match not found: id=%d", id)
	}
	if err := s.db.DeleteConfirmed(id); err != nil {
		return internal.PendingMatch{}, err
	}
	delete(s.confirmed, util.Normalize(row.ProductB))
	for i, c := range s.confirmedAll {
		if c.ID == id {
			s.confirmedAll = append(s.confirmedAll[:i], s.confirmedAll[i+1:]...)
			break
		}
	}

	return s.SavePending(row.ProductA, row.ProductB, row.PriceA, row.PriceB, row.Similarity)
}

func (s *Store) ConfirmedRows() ([]internal.ConfirmedMatch, error) {
	return s.db.ListConfirmed()
}

func (s *Store) PendingRows() ([]internal.PendingMatch, error) {
	return s.db.ListPendingByStatus(internal.PendingStatus)
}

func (s *Store) DeletePending(id int64) error {
	row, err := s.db.GetPendingByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return fmt.Errorf("pending match not found: id=%d", id)
	}
	if err := s.db.DeletePending(id); err != nil {
		return err
	}
	delete(s.pending, pendingKey(row.ProductA, row.ProductB))
	return nil
}

func (s *Store) RecordRun(traceID string, counts internal.RunCounts) error {
	return s.db.InsertRun(traceID, counts)
}

func (s *Store) Runs(limit int) ([]internal.RunRow, error) {
	return s.db.ListRuns(limit)
}
