package capital

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Pon1147/botqr2/internal/audit"
	"github.com/Pon1147/botqr2/internal/capital"
	"github.com/Pon1147/botqr2/internal/ledger"
)

type Handler struct {
	tracker *capital.Tracker
	store   *ledger.Store
	log     *audit.Logger
}

func New(tracker *capital.Tracker, store *ledger.Store, log *audit.Logger) *Handler {
	return &Handler{tracker: tracker, store: store, log: log}
}

// Show reports current capital, confirmed revenue and derived profit.
func (h *Handler) Show(c *fiber.Ctx) error {
	confirmed := h.store.ConfirmedTotal()
	return c.JSON(fiber.Map{
		"capital":        h.tracker.Current(),
		"confirmedTotal": confirmed,
		"profit":         h.tracker.Profit(confirmed),
	})
}

type addRequest struct {
	Amount int64 `json:"amount"`
}

// Add appends invested capital and returns the recomputed report.
func (h *Handler) Add(c *fiber.Ctx) error {
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}

	current, err := h.tracker.Add(c.Context(), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, capital.ErrInvalidAmount):
			return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
		case errors.Is(err, capital.ErrMirrorWrite):
			return fiber.NewError(fiber.StatusBadGateway, "could not record capital entry, try again")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "internal error")
		}
	}

	h.log.Infof("[capital-input] added %d, capital now %d", req.Amount, current)

	confirmed := h.store.ConfirmedTotal()
	return c.JSON(fiber.Map{
		"capital":        current,
		"confirmedTotal": confirmed,
		"profit":         h.tracker.Profit(confirmed),
	})
}
