package view

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/report"
	"github.com/Pon1147/botqr2/internal/session"
)

// View kinds.
const (
	KindPayments     = "payments"      // ledger, date desc, optional status filter
	KindUserPayments = "user-payments" // confirmed txs of one user
)

type Handler struct {
	sessions *session.Manager
	store    *ledger.Store
	perPage  int
}

func New(sessions *session.Manager, store *ledger.Store, perPage int) *Handler {
	return &Handler{sessions: sessions, store: store, perPage: perPage}
}

type openRequest struct {
	Kind    string `json:"kind"`
	Filter  string `json:"filter,omitempty"` // status for payments, user id for user-payments
	Role    string `json:"role,omitempty"`   // buyer | seller
	PerPage int    `json:"perPage,omitempty"`
}

// Open starts an interactive paginated view owned by the calling admin.
func (h *Handler) Open(c *fiber.Ctx) error {
	var req openRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}
	if req.Kind != KindPayments && req.Kind != KindUserPayments {
		return fiber.NewError(fiber.StatusBadRequest, "unknown view kind")
	}
	if req.Kind == KindUserPayments && req.Filter == "" {
		return fiber.NewError(fiber.StatusBadRequest, "filter user id is required")
	}
	if req.Kind == KindPayments && req.Filter != "" {
		if _, err := h.store.ListByStatus(req.Filter); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	if req.PerPage <= 0 {
		req.PerPage = h.perPage
	}

	v := h.sessions.Open(session.View{
		OwnerID: ownerID(c),
		Kind:    req.Kind,
		Filter:  req.Filter,
		Role:    req.Role,
		PerPage: req.PerPage,
	})
	return h.render(c, v, fiber.StatusCreated)
}

type navRequest struct {
	Page int `json:"page"`
}

// Navigate clamps and shows the requested page. Requests against an expired
// or completed view fail without touching ledger state.
func (h *Handler) Navigate(c *fiber.Ctx) error {
	var req navRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}

	v, err := h.sessions.Navigate(c.Params("id"), ownerID(c), req.Page)
	if err != nil {
		return mapErr(err)
	}
	return h.render(c, v, fiber.StatusOK)
}

// Get re-renders the current page of the view.
func (h *Handler) Get(c *fiber.Ctx) error {
	v, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return mapErr(err)
	}
	if v.State != session.StateActive {
		return mapErr(session.ErrInactive)
	}
	return h.render(c, v, fiber.StatusOK)
}

// Close completes the view, stopping its expiry timer.
func (h *Handler) Close(c *fiber.Ctx) error {
	if err := h.sessions.Complete(c.Params("id"), ownerID(c)); err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *Handler) render(c *fiber.Ctx, v *session.View, status int) error {
	items, err := h.items(v)
	if err != nil {
		return err
	}

	page := report.Paginate(len(items), v.PerPage, v.Page)
	return c.Status(status).JSON(fiber.Map{
		"view":       v,
		"items":      items[page.Start:page.End],
		"page":       page.Index,
		"totalItems": page.TotalItems,
		"totalPages": page.TotalPages,
	})
}

func (h *Handler) items(v *session.View) ([]ledger.Transaction, error) {
	switch v.Kind {
	case KindPayments:
		if v.Filter != "" {
			txs, err := h.store.ListByStatus(v.Filter)
			if err != nil {
				return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return txs, nil
		}
		return h.store.ListSorted(), nil
	case KindUserPayments:
		role := v.Role
		if role == "" {
			role = ledger.RoleBuyer
		}
		agg, err := h.store.ByUser(v.Filter, role)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return agg.Transactions, nil
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "unknown view kind")
	}
}

func ownerID(c *fiber.Ctx) string {
	id, _ := c.Locals("admin_id").(string)
	return id
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "view not found")
	case errors.Is(err, session.ErrInactive):
		return fiber.NewError(fiber.StatusGone, "view expired, open a new one")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
