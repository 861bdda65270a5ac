package ledger

import "time"

const (
	StatusPending   = "pending"   // created, waiting for confirm/cancel
	StatusConfirmed = "confirmed" // payment verified as received (terminal)
	StatusCancelled = "cancelled" // rejected/voided (terminal)
)

type Transaction struct {
	ID            string     `json:"id"`
	BuyerID       string     `json:"buyerId"`
	SellerID      string     `json:"sellerId"`
	Amount        int64      `json:"amount"` // whole VND, no minor units
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Date          time.Time  `json:"date"`
	ProcessedDate *time.Time `json:"processedDate,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

type CreateInput struct {
	BuyerID     string `json:"buyerId"`
	SellerID    string `json:"sellerId"` // optional, defaulted by the store
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// UserTotal is the per-user aggregate over confirmed transactions.
type UserTotal struct {
	Count        int           `json:"count"`
	Total        int64         `json:"total"`
	Transactions []Transaction `json:"transactions"`
}

// DayTotal is the aggregate for one UTC calendar day.
type DayTotal struct {
	Date         string        `json:"date"` // YYYY-MM-DD
	Total        int64         `json:"total"`
	Transactions []Transaction `json:"transactions"`
}

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)
