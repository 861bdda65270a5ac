// Package sheets is the remote store adapter. The spreadsheet is the system
// of record across restarts, but at runtime it is only an eventually-synced
// mirror of in-memory state: payment and profile tables are rewritten
// wholesale on every mutation, capital and logs are append-only.
package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/qrprofile"
)

// Data ranges start at row 2; row 1 of every table is a header that clear
// operations must never touch.
const (
	paymentsRange = "Payments!A2:H"
	profilesRange = "Profiles!A2:F"
	capitalRange  = "Capital!A2:B"
	logsRange     = "Logs!A2:C"
)

type Repo struct {
	api           ValuesAPI
	defaultSeller string
}

func NewRepo(api ValuesAPI, defaultSeller string) *Repo {
	return &Repo{api: api, defaultSeller: defaultSeller}
}

// Snapshot is everything LoadAll hydrates at process start.
type Snapshot struct {
	Transactions []ledger.Transaction
	Profiles     []qrprofile.Profile
	Capital      int64
}

// LoadAll reads all three tables. Malformed rows degrade to defaults and
// never abort the load; only transport-level failures do.
func (r *Repo) LoadAll(ctx context.Context) (*Snapshot, error) {
	txs, err := r.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := r.LoadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	capital, err := r.LoadCapital(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Transactions: txs, Profiles: profiles, Capital: capital}, nil
}

func (r *Repo) LoadPayments(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := r.api.Get(ctx, paymentsRange)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	txs := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := rowToPayment(row, r.defaultSeller)
		if tx.ID == "" {
			continue // blank/garbage row
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// ReplacePayments clears the data range and rewrites the full snapshot in
// fixed column order. O(n) remote I/O per mutation is the accepted price for
// a backend with no row-level update primitive.
func (r *Repo) ReplacePayments(ctx context.Context, txs []ledger.Transaction) error {
	if err := r.api.Clear(ctx, paymentsRange); err != nil {
		return fmt.Errorf("clear payments: %w", err)
	}
	if len(txs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, paymentToRow(tx))
	}
	if err := r.api.Append(ctx, paymentsRange, rows); err != nil {
		return fmt.Errorf("append payments: %w", err)
	}
	return nil
}

func (r *Repo) LoadProfiles(ctx context.Context) ([]qrprofile.Profile, error) {
	rows, err := r.api.Get(ctx, profilesRange)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	profiles := make([]qrprofile.Profile, 0, len(rows))
	for _, row := range rows {
		p := rowToProfile(row)
		if p.Identity == "" {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *Repo) ReplaceProfiles(ctx context.Context, profiles []qrprofile.Profile) error {
	if err := r.api.Clear(ctx, profilesRange); err != nil {
		return fmt.Errorf("clear profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, profileToRow(p))
	}
	if err := r.api.Append(ctx, profilesRange, rows); err != nil {
		return fmt.Errorf("append profiles: %w", err)
	}
	return nil
}

// LoadCapital returns the value of the most recent capital entry, 0 when the
// history is empty.
func (r *Repo) LoadCapital(ctx context.Context) (int64, error) {
	rows, err := r.api.Get(ctx, capitalRange)
	if err != nil {
		return 0, fmt.Errorf("load capital: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	last := rows[len(rows)-1]
	return asInt64(cell(last, 1)), nil
}

// AppendCapital appends one history entry. History is never rewritten.
func (r *Repo) AppendCapital(ctx context.Context, amount int64) error {
	row := []any{time.Now().UTC().Format(time.RFC3339), amount}
	if err := r.api.Append(ctx, capitalRange, [][]any{row}); err != nil {
		return fmt.Errorf("append capital: %w", err)
	}
	return nil
}

// AppendLog appends one log row, implementing audit.Sink.
func (r *Repo) AppendLog(ctx context.Context, level, message string) error {
	row := []any{time.Now().UTC().Format(time.RFC3339), level, message}
	if err := r.api.Append(ctx, logsRange, [][]any{row}); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}
