// Package report provides the read-side aggregations: top buyers, daily
// revenue buckets, and pagination windows. Nothing in here mutates the
// ledger.
package report

import (
	"sort"
	"time"

	"github.com/Pon1147/botqr2/internal/ledger"
)

// TopLimit is how many buyers the ranking is truncated to.
const TopLimit = 10

// maxDailyDates caps the date picker to the most recent days.
const maxDailyDates = 25

type BuyerRank struct {
	Rank    int    `json:"rank"`
	BuyerID string `json:"buyerId"`
	Count   int    `json:"count"`
	Total   int64  `json:"total"`
}

type TopReport struct {
	Buyers    []BuyerRank `json:"buyers"`
	SelfRank  int         `json:"selfRank"` // 1-based in the full ranking, 0 if absent
	SelfTotal int64       `json:"selfTotal"`
}

// TopBuyers ranks buyers by confirmed total, descending, ties broken by
// first-encountered order in txs. The ranking is truncated to TopLimit but
// the self rank is computed over the full list.
func TopBuyers(txs []ledger.Transaction, selfID string) *TopReport {
	totals := make(map[string]*BuyerRank)
	var order []string
	for _, tx := range txs {
		if tx.Status != ledger.StatusConfirmed || tx.Amount <= 0 {
			continue
		}
		r, ok := totals[tx.BuyerID]
		if !ok {
			r = &BuyerRank{BuyerID: tx.BuyerID}
			totals[tx.BuyerID] = r
			order = append(order, tx.BuyerID)
		}
		r.Count++
		r.Total += tx.Amount
	}

	ranking := make([]BuyerRank, 0, len(order))
	for _, id := range order {
		ranking = append(ranking, *totals[id])
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Total > ranking[j].Total
	})

	out := &TopReport{Buyers: []BuyerRank{}}
	for i := range ranking {
		ranking[i].Rank = i + 1
		if ranking[i].BuyerID == selfID {
			out.SelfRank = ranking[i].Rank
			out.SelfTotal = ranking[i].Total
		}
	}
	if len(ranking) > TopLimit {
		out.Buyers = ranking[:TopLimit]
	} else {
		out.Buyers = ranking
	}
	return out
}

// DailyDates returns the distinct UTC calendar dates that have confirmed
// transactions, most recent first, capped at maxDailyDates.
func DailyDates(txs []ledger.Transaction) []string {
	seen := make(map[string]struct{})
	var dates []string
	for _, tx := range txs {
		if tx.Status != ledger.StatusConfirmed {
			continue
		}
		d := tx.Date.UTC().Format("2006-01-02")
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > maxDailyDates {
		dates = dates[:maxDailyDates]
	}
	return dates
}

// DefaultDate picks today (UTC) when it has confirmed transactions, else the
// most recent available date. Empty when there is nothing confirmed.
func DefaultDate(dates []string, now time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	today := now.UTC().Format("2006-01-02")
	for _, d := range dates {
		if d == today {
			return d
		}
	}
	return dates[0]
}

type Page struct {
	Index      int `json:"page"`  // clamped to [0, TotalPages-1]
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Start      int `json:"-"`
	End        int `json:"-"`
}

// Paginate computes a clamped page window over an already-sorted list of
// total items. Out-of-range page requests clamp instead of erroring.
func Paginate(total, perPage, page int) Page {
	if perPage <= 0 {
		perPage = 5
	}
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page > pages-1 {
		page = pages - 1
	}
	start := page * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{
		Index:      page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: pages,
		Start:      start,
		End:        end,
	}
}
