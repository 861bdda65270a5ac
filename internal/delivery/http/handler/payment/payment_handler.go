package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Pon1147/botqr2/internal/audit"
	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/report"
)

type Handler struct {
	store   *ledger.Store
	log     *audit.Logger
	perPage int
}

func New(store *ledger.Store, log *audit.Logger, perPage int) *Handler {
	return &Handler{store: store, log: log, perPage: perPage}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var in ledger.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}

	tx, err := h.store.Create(c.Context(), in)
	if err != nil && !errors.Is(err, ledger.ErrMirrorWrite) {
		return mapErr(err)
	}

	h.log.Infof("[pay] seller %s created %s for buyer %s: %d - %s",
		tx.SellerID, tx.ID, tx.BuyerID, tx.Amount, tx.Description)
	return c.Status(fiber.StatusCreated).JSON(result(tx, err))
}

func (h *Handler) Confirm(c *fiber.Ctx) error {
	tx, err := h.store.Confirm(c.Context(), c.Params("id"))
	if err != nil && !errors.Is(err, ledger.ErrMirrorWrite) {
		return mapErr(err)
	}

	h.log.Infof("[payment-confirm] %s confirmed (buyer %s, %d)", tx.ID, tx.BuyerID, tx.Amount)
	return c.JSON(result(tx, err))
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	var req cancelRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}

	tx, err := h.store.Cancel(c.Context(), c.Params("id"), req.Reason)
	if err != nil && !errors.Is(err, ledger.ErrMirrorWrite) {
		return mapErr(err)
	}

	h.log.Infof("[payment-cancel] %s cancelled (buyer %s): %s", tx.ID, tx.BuyerID, tx.Reason)
	return c.JSON(result(tx, err))
}

func (h *Handler) Get(c *fiber.Ctx) error {
	tx, err := h.store.FindByID(c.Params("id"))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(tx)
}

// List serves a date-descending page of the ledger, optionally narrowed to
// one lifecycle status via ?status=pending|confirmed|cancelled.
func (h *Handler) List(c *fiber.Ctx) error {
	var (
		txs []ledger.Transaction
		err error
	)
	if status := c.Query("status"); status != "" {
		txs, err = h.store.ListByStatus(status)
		if err != nil {
			return mapErr(err)
		}
	} else {
		txs = h.store.ListSorted()
	}
	page := report.Paginate(len(txs), c.QueryInt("perPage", h.perPage), c.QueryInt("page", 0))

	return c.JSON(fiber.Map{
		"items":      txs[page.Start:page.End],
		"page":       page.Index,
		"perPage":    page.PerPage,
		"totalItems": page.TotalItems,
		"totalPages": page.TotalPages,
	})
}

// ByUser aggregates confirmed transactions for one user in the buyer or
// seller role.
func (h *Handler) ByUser(c *fiber.Ctx) error {
	role := c.Query("role", ledger.RoleSeller)

	out, err := h.store.ByUser(c.Params("id"), role)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

// result shapes a mutation response. A mirror-write failure is reported as a
// soft warning next to the committed transaction, never as a failure.
func result(tx *ledger.Transaction, err error) fiber.Map {
	out := fiber.Map{"transaction": tx}
	if errors.Is(err, ledger.ErrMirrorWrite) {
		out["syncWarning"] = "saved locally, remote sync failed"
	}
	return out
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrProfileRequired):
		return fiber.NewError(fiber.StatusPreconditionFailed, "seller has no qr profile, set one up first")
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "transaction not found")
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		return fiber.NewError(fiber.StatusConflict, "transaction already processed")
	case errors.Is(err, ledger.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, "invalid status transition")
	case errors.Is(err, ledger.ErrIDSpaceExhausted):
		return fiber.NewError(fiber.StatusInternalServerError, "could not allocate transaction id")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
