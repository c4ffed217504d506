// Package store holds the locally cached transactions and categories of one
// session. All changes go through the reducer methods, which Operations call
// when a request starts, succeeds or fails.
package store

import (
	"sync"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/models"
)

// State is a point-in-time copy of the store.
type State struct {
	Transactions          []models.Transaction `json:"transactions"`
	TransactionCategories []models.Category    `json:"transactionCategories"`
	IsLoading             bool                 `json:"isLoading"`
	Error                 string               `json:"error,omitempty"`
	Version               uint64               `json:"version"`
}

// Store is safe for concurrent use. Mutations are applied in the order the
// reducers are called, so concurrent edits of one entry resolve
// last-write-wins.
//
// Every request is stamped with the epoch its start reducer returned. Reset
// starts a new epoch; outcomes of requests from an older epoch only settle
// the in-flight count.
type Store struct {
	mu           sync.RWMutex
	transactions []models.Transaction
	categories   []models.Category
	inFlight     int
	err          string
	version      uint64
	epoch        uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Transactions:          append([]models.Transaction{}, s.transactions...),
		TransactionCategories: append([]models.Category{}, s.categories...),
		IsLoading:             s.inFlight > 0,
		Error:                 s.err,
		Version:               s.version,
	}
}

// Transaction returns the cached entry with id.
func (s *Store) Transaction(id string) (models.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.transactions[i], true
	}
	return models.Transaction{}, false
}

// Epoch returns the current reset epoch.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// FetchStarted marks a List as pending and returns its epoch.
func (s *Store) FetchStarted() uint64 {
	return s.started()
}

// FetchSucceeded replaces both collections with the server's.
func (s *Store) FetchSucceeded(epoch uint64, txns []models.Transaction, cats []models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.release()
		return
	}
	s.transactions = append([]models.Transaction{}, txns...)
	s.categories = append([]models.Category{}, cats...)
	s.settle("")
}

// FetchFailed records msg and keeps the previous collections.
func (s *Store) FetchFailed(epoch uint64, msg string) {
	s.failed(epoch, msg)
}

// MutationStarted marks a Create, Update or Delete as pending and returns
// its epoch.
func (s *Store) MutationStarted() uint64 {
	return s.started()
}

// AddSucceeded appends tx. The backend assigns fresh ids, so there is no
// de-duplication.
func (s *Store) AddSucceeded(epoch uint64, tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.release()
		return
	}
	s.transactions = append(s.transactions, tx)
	s.settle("")
}

// EditSucceeded replaces the entry with tx.ID. When no such entry is cached
// the collection is left untouched and ErrStaleReference is returned; the
// request still counts as settled.
func (s *Store) EditSucceeded(epoch uint64, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.release()
		return nil
	}
	i := s.indexOf(tx.ID)
	if i < 0 {
		s.release()
		return apperrors.ErrStaleReference
	}
	s.transactions[i] = tx
	s.settle("")
	return nil
}

// DeleteSucceeded removes the entry with id. A missing id is a no-op.
func (s *Store) DeleteSucceeded(epoch uint64, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.release()
		return
	}
	kept := s.transactions[:0:0]
	for _, tx := range s.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept
	s.settle("")
}

// MutationFailed records msg and leaves the collection unchanged.
func (s *Store) MutationFailed(epoch uint64, msg string) {
	s.failed(epoch, msg)
}

// Reset empties the store and starts a new epoch. Requests still in flight
// keep their count so isLoading settles once they complete, but their
// results are dropped.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = nil
	s.categories = nil
	s.err = ""
	s.epoch++
	s.version++
}

func (s *Store) started() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	s.err = ""
	s.version++
	return s.epoch
}

func (s *Store) failed(epoch uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.release()
		return
	}
	s.settle(msg)
}

// settle must be called with mu held.
func (s *Store) settle(msg string) {
	s.release()
	s.err = msg
}

// release must be called with mu held.
func (s *Store) release() {
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.version++
}

func (s *Store) indexOf(id string) int {
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			return i
		}
	}
	return -1
}
