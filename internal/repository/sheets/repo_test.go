package sheets

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/qrprofile"
	"github.com/Pon1147/botqr2/internal/repository/sheets/testutil"
)

// --- Helpers -------------------------------------------------------------

func newTestRepo(t *testing.T) (*Repo, *testutil.FakeValues) {
	t.Helper()

	fake := testutil.NewFakeValues()
	return NewRepo(fake, "seller-1"), fake
}

func sampleTxs(n int) []ledger.Transaction {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	statuses := []string{ledger.StatusPending, ledger.StatusConfirmed, ledger.StatusCancelled}

	out := make([]ledger.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tx := ledger.Transaction{
			ID:          fmt.Sprintf("TXSAMPLE%06d", i),
			BuyerID:     fmt.Sprintf("buyer-%d", i%7),
			SellerID:    "seller-1",
			Amount:      int64(1000 * (i + 1)),
			Description: fmt.Sprintf("order %d", i),
			Status:      statuses[i%3],
			Date:        base.Add(time.Duration(i) * time.Minute),
		}
		if tx.Status != ledger.StatusPending {
			p := tx.Date.Add(time.Hour)
			tx.ProcessedDate = &p
		}
		if tx.Status == ledger.StatusCancelled {
			tx.Reason = "declined"
		}
		out = append(out, tx)
	}
	return out
}

func byID(txs []ledger.Transaction) map[string]ledger.Transaction {
	m := make(map[string]ledger.Transaction, len(txs))
	for _, tx := range txs {
		m[tx.ID] = tx
	}
	return m
}

// --- Tests ---------------------------------------------------------------

// This test validates:
// - ReplacePayments followed by LoadPayments round-trips the collection
//   field for field, order independent, for every status value
func TestRepo_Payments_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 3, 1200} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			repo, _ := newTestRepo(t)
			in := sampleTxs(n)

			require.NoError(t, repo.ReplacePayments(context.Background(), in))

			out, err := repo.LoadPayments(context.Background())
			require.NoError(t, err)
			require.Len(t, out, n)

			want := byID(in)
			for _, got := range out {
				exp, ok := want[got.ID]
				require.True(t, ok, "unexpected id %s", got.ID)
				require.Equal(t, exp.BuyerID, got.BuyerID)
				require.Equal(t, exp.Amount, got.Amount)
				require.Equal(t, exp.Description, got.Description)
				require.Equal(t, exp.Status, got.Status)
				require.True(t, exp.Date.Equal(got.Date))
				require.Equal(t, exp.Reason, got.Reason)
				if exp.ProcessedDate == nil {
					require.Nil(t, got.ProcessedDate)
				} else {
					require.NotNil(t, got.ProcessedDate)
					require.True(t, exp.ProcessedDate.Equal(*got.ProcessedDate))
				}
				// seller is not a persisted column; hydration fills the default
				require.Equal(t, "seller-1", got.SellerID)
			}
		})
	}
}

// This test validates:
// - every replace clears the data range before appending, so stale rows
//   never survive a shrinking snapshot
func TestRepo_ReplacePayments_IsFullReplace(t *testing.T) {
	repo, fake := newTestRepo(t)

	require.NoError(t, repo.ReplacePayments(context.Background(), sampleTxs(5)))
	require.NoError(t, repo.ReplacePayments(context.Background(), sampleTxs(2)))

	out, err := repo.LoadPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, 2, fake.Clears)
}

// This test validates:
// - malformed numeric cells coerce to 0, missing strings to ""
// - garbage rows degrade instead of aborting the load
func TestRepo_LoadPayments_DefensiveDecoding(t *testing.T) {
	repo, fake := newTestRepo(t)

	fake.Seed("Payments", [][]any{
		{"txlower", "buyer-1", "not-a-number", nil, "", "garbage-date", "", nil},
		{"TXOK", "buyer-2", "2500", "ok row", "confirmed", "2025-03-01T10:00:00Z", "2025-03-01T11:00:00Z", ""},
		{nil, nil, nil}, // blank row, skipped entirely
		{"TXFLOAT", "buyer-3", 1500.0, "sheet returned a float", "pending", "2025-03-01T10:00:00Z"},
	})

	out, err := repo.LoadPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	m := byID(out)
	bad := m["TXLOWER"] // ids normalize to upper case
	require.EqualValues(t, 0, bad.Amount)
	require.Equal(t, "", bad.Description)
	require.Equal(t, ledger.StatusPending, bad.Status) // empty status degrades to pending
	require.True(t, bad.Date.IsZero())
	require.Nil(t, bad.ProcessedDate)

	ok := m["TXOK"]
	require.EqualValues(t, 2500, ok.Amount)
	require.Equal(t, ledger.StatusConfirmed, ok.Status)
	require.NotNil(t, ok.ProcessedDate)

	f := m["TXFLOAT"]
	require.EqualValues(t, 1500, f.Amount)
}

func TestRepo_Profiles_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	in := []qrprofile.Profile{
		{Identity: "seller-1", Bank: "NGUYEN VAN YEN", Account: "0123456789", URL: "http://pay.example.com/yen", Logo: "http://cdn.example.com/logo.png", UpdatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)},
		{Identity: "seller-2", Bank: "TRAN THI B", Account: "999", URL: "https://pay.example.com/b", UpdatedAt: time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, repo.ReplaceProfiles(context.Background(), in))

	out, err := repo.LoadProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, in[0].Bank, out[0].Bank)
	require.Equal(t, in[0].URL, out[0].URL)
	require.Equal(t, in[1].Identity, out[1].Identity)
	require.Empty(t, out[1].Logo)
	require.True(t, in[1].UpdatedAt.Equal(out[1].UpdatedAt))
}

// This test validates:
// - capital is the value of the most recent history entry
// - the history is append-only, never rewritten
func TestRepo_Capital_AppendOnly(t *testing.T) {
	repo, fake := newTestRepo(t)

	v, err := repo.LoadCapital(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, v)

	require.NoError(t, repo.AppendCapital(context.Background(), 1000000))
	require.NoError(t, repo.AppendCapital(context.Background(), 1500000))

	v, err = repo.LoadCapital(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1500000, v)

	require.Len(t, fake.Rows("Capital"), 2)
	require.Equal(t, 0, fake.Clears)
}

func TestRepo_AppendLog(t *testing.T) {
	repo, fake := newTestRepo(t)

	require.NoError(t, repo.AppendLog(context.Background(), "INFO", "bot online"))

	rows := fake.Rows("Logs")
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 3)
	require.Equal(t, "INFO", rows[0][1])
	require.Equal(t, "bot online", rows[0][2])
}

func TestRepo_LoadAll(t *testing.T) {
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.ReplacePayments(context.Background(), sampleTxs(4)))
	require.NoError(t, repo.ReplaceProfiles(context.Background(), []qrprofile.Profile{
		{Identity: "seller-1", Bank: "A", Account: "1", URL: "http://a.example.com"},
	}))
	require.NoError(t, repo.AppendCapital(context.Background(), 750000))

	snap, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 4)
	require.Len(t, snap.Profiles, 1)
	require.EqualValues(t, 750000, snap.Capital)
}

func TestRepo_LoadAll_TransportFailure(t *testing.T) {
	repo, fake := newTestRepo(t)
	fake.FailNext = testutil.ErrUnavailable

	_, err := repo.LoadAll(context.Background())
	require.ErrorIs(t, err, testutil.ErrUnavailable)
}
