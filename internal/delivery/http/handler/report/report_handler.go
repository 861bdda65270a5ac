package report

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/report"
)

type Handler struct {
	store *ledger.Store
}

func New(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

// Top ranks buyers by confirmed total. The optional self query carries the
// identity of whoever asked, so the response can include their own rank even
// when they fall outside the top ten.
func (h *Handler) Top(c *fiber.Ctx) error {
	out := report.TopBuyers(h.store.ListSorted(), c.Query("self"))
	return c.JSON(out)
}

// Daily returns the available report dates and the bucket for the requested
// date, defaulting to today (UTC) or the most recent date with revenue.
func (h *Handler) Daily(c *fiber.Ctx) error {
	txs := h.store.ListSorted()
	dates := report.DailyDates(txs)

	date := c.Query("date")
	if date == "" {
		date = report.DefaultDate(dates, time.Now())
	}
	if date == "" {
		return c.JSON(fiber.Map{"dates": []string{}, "bucket": nil})
	}

	bucket, err := h.store.ByDate(date)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidInput) {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(fiber.Map{"dates": dates, "bucket": bucket})
}
