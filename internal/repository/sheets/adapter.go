package sheets

import (
	"strconv"
	"strings"
	"time"

	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/qrprofile"
)

// Cell coercion is deliberately forgiving: a malformed remote row degrades
// to zero values instead of aborting a load. Operators edit these sheets by
// hand, so garbage cells are a fact of life.

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}

func asTime(v any) time.Time {
	s := asString(v)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func cell(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Payments column order: id, buyerId, amount, description, status, date,
// processedDate, reason. The seller is a deployment-level identity and is
// not persisted; hydration fills it from configuration.

func paymentToRow(tx ledger.Transaction) []any {
	processed := ""
	if tx.ProcessedDate != nil {
		processed = fmtTime(*tx.ProcessedDate)
	}
	return []any{
		tx.ID,
		tx.BuyerID,
		tx.Amount,
		tx.Description,
		tx.Status,
		fmtTime(tx.Date),
		processed,
		tx.Reason,
	}
}

func rowToPayment(row []any, defaultSeller string) ledger.Transaction {
	tx := ledger.Transaction{
		ID:          strings.ToUpper(asString(cell(row, 0))),
		BuyerID:     asString(cell(row, 1)),
		SellerID:    defaultSeller,
		Amount:      asInt64(cell(row, 2)),
		Description: asString(cell(row, 3)),
		Status:      asString(cell(row, 4)),
		Date:        asTime(cell(row, 5)),
		Reason:      asString(cell(row, 7)),
	}
	if tx.Status == "" {
		tx.Status = ledger.StatusPending
	}
	if p := asTime(cell(row, 6)); !p.IsZero() {
		tx.ProcessedDate = &p
	}
	return tx
}

// Profiles column order: identity, bank, account, url, logo, lastUpdated.

func profileToRow(p qrprofile.Profile) []any {
	return []any{
		p.Identity,
		p.Bank,
		p.Account,
		p.URL,
		p.Logo,
		fmtTime(p.UpdatedAt),
	}
}

func rowToProfile(row []any) qrprofile.Profile {
	return qrprofile.Profile{
		Identity:  asString(cell(row, 0)),
		Bank:      asString(cell(row, 1)),
		Account:   asString(cell(row, 2)),
		URL:       asString(cell(row, 3)),
		Logo:      asString(cell(row, 4)),
		UpdatedAt: asTime(cell(row, 5)),
	}
}
