package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Mirror receives full snapshots of the ledger. The remote backend has no
// per-row update primitive, so every mutation rewrites the whole table.
type Mirror interface {
	ReplacePayments(ctx context.Context, txs []Transaction) error
}

// ProfileDirectory answers whether a seller has a QR profile set up.
// Creating a payment request without one must fail closed.
type ProfileDirectory interface {
	Exists(identity string) bool
}

// Store owns the authoritative in-memory transaction collection for the
// process lifetime. The remote mirror is only the last snapshot successfully
// written; it never overrides in-memory state except via Replace at startup.
type Store struct {
	mu            sync.RWMutex
	txs           []Transaction // order of arrival, newest first
	byID          map[string]int
	mirror        Mirror
	profiles      ProfileDirectory
	defaultSeller string
	now           func() time.Time
}

func New(mirror Mirror, profiles ProfileDirectory, defaultSeller string) *Store {
	return &Store{
		byID:          make(map[string]int),
		mirror:        mirror,
		profiles:      profiles,
		defaultSeller: defaultSeller,
		now:           time.Now,
	}
}

// Create appends a pending transaction and synchronously writes the snapshot
// to the mirror. On mirror failure the transaction is kept and the returned
// error wraps ErrMirrorWrite; the create itself is not rolled back.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Transaction, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(in.BuyerID) == "" {
		return nil, fmt.Errorf("%w: buyer is required", ErrInvalidInput)
	}
	seller := strings.TrimSpace(in.SellerID)
	if seller == "" {
		seller = s.defaultSeller
	}
	if seller == "" {
		return nil, fmt.Errorf("%w: seller is required", ErrInvalidInput)
	}
	if !s.profiles.Exists(seller) {
		return nil, ErrProfileRequired
	}

	s.mu.Lock()
	id, err := s.freshID()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	tx := Transaction{
		ID:          id,
		BuyerID:     in.BuyerID,
		SellerID:    seller,
		Amount:      in.Amount,
		Description: in.Description,
		Status:      StatusPending,
		Date:        s.now().UTC(),
	}

	// Newest-first prepend; display order is recomputed from Date anyway.
	s.txs = append([]Transaction{tx}, s.txs...)
	s.reindexLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.mirror.ReplacePayments(ctx, snapshot); err != nil {
		return &tx, fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return &tx, nil
}

// Confirm moves a pending transaction to confirmed. The status check and the
// write happen under one lock, so two racing confirms cannot both win.
func (s *Store) Confirm(ctx context.Context, id string) (*Transaction, error) {
	return s.process(ctx, id, StatusConfirmed, "")
}

// Cancel moves a pending transaction to cancelled with a reason.
func (s *Store) Cancel(ctx context.Context, id, reason string) (*Transaction, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancel reason is required", ErrInvalidInput)
	}
	return s.process(ctx, id, StatusCancelled, reason)
}

func (s *Store) process(ctx context.Context, id, target, reason string) (*Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if target != StatusConfirmed && target != StatusCancelled {
		return nil, ErrInvalidTransition
	}

	s.mu.Lock()
	i, ok := s.byID[normalizeID(id)]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if s.txs[i].Status != StatusPending {
		s.mu.Unlock()
		return nil, ErrAlreadyProcessed
	}

	processed := s.now().UTC()
	s.txs[i].Status = target
	s.txs[i].ProcessedDate = &processed
	s.txs[i].Reason = reason

	tx := s.txs[i]
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.mirror.ReplacePayments(ctx, snapshot); err != nil {
		return &tx, fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return &tx, nil
}

// FindByID returns a copy of the transaction, or ErrNotFound.
func (s *Store) FindByID(id string) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[normalizeID(id)]
	if !ok {
		return nil, ErrNotFound
	}
	tx := s.txs[i]
	return &tx, nil
}

// ListSorted returns all transactions ordered by Date descending. The sort is
// recomputed per call because Replace may have swapped the backing slice.
func (s *Store) ListSorted() []Transaction {
	s.mu.RLock()
	out := s.snapshotLocked()
	s.mu.RUnlock()

	sortByDateDesc(out)
	return out
}

// ListByStatus returns the transactions carrying one lifecycle status,
// ordered by Date descending.
func (s *Store) ListByStatus(status string) ([]Transaction, error) {
	if status != StatusPending && status != StatusConfirmed && status != StatusCancelled {
		return nil, fmt.Errorf("%w: status must be pending, confirmed or cancelled", ErrInvalidInput)
	}

	s.mu.RLock()
	out := []Transaction{}
	for _, tx := range s.txs {
		if tx.Status == status {
			out = append(out, tx)
		}
	}
	s.mu.RUnlock()

	sortByDateDesc(out)
	return out, nil
}

func sortByDateDesc(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// ConfirmedTotal sums Amount over all confirmed transactions.
func (s *Store) ConfirmedTotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, tx := range s.txs {
		if tx.Status == StatusConfirmed {
			total += tx.Amount
		}
	}
	return total
}

// ByUser aggregates confirmed transactions where the user appears in the
// given role (buyer or seller).
func (s *Store) ByUser(userID, role string) (*UserTotal, error) {
	if role != RoleBuyer && role != RoleSeller {
		return nil, fmt.Errorf("%w: role must be buyer or seller", ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &UserTotal{Transactions: []Transaction{}}
	for _, tx := range s.txs {
		if tx.Status != StatusConfirmed {
			continue
		}
		if (role == RoleBuyer && tx.BuyerID == userID) || (role == RoleSeller && tx.SellerID == userID) {
			out.Count++
			out.Total += tx.Amount
			out.Transactions = append(out.Transactions, tx)
		}
	}
	return out, nil
}

// ByDate aggregates confirmed transactions whose Date falls on the given UTC
// calendar day, formatted YYYY-MM-DD.
func (s *Store) ByDate(isoDate string) (*DayTotal, error) {
	if _, err := time.Parse("2006-01-02", isoDate); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &DayTotal{Date: isoDate, Transactions: []Transaction{}}
	for _, tx := range s.txs {
		if tx.Status != StatusConfirmed {
			continue
		}
		if tx.Date.UTC().Format("2006-01-02") == isoDate {
			out.Total += tx.Amount
			out.Transactions = append(out.Transactions, tx)
		}
	}
	return out, nil
}

// Replace swaps the whole collection, used when hydrating from the mirror at
// startup. It does not write back.
func (s *Store) Replace(txs []Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txs = append([]Transaction(nil), txs...)
	s.reindexLocked()
}

// Len reports the number of transactions in the ledger.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

func (s *Store) freshID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := newTxID()
		if _, exists := s.byID[id]; !exists {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

func (s *Store) reindexLocked() {
	s.byID = make(map[string]int, len(s.txs))
	for i, tx := range s.txs {
		s.byID[tx.ID] = i
	}
}

func (s *Store) snapshotLocked() []Transaction {
	return append([]Transaction(nil), s.txs...)
}
