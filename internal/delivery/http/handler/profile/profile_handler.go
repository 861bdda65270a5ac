package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Pon1147/botqr2/internal/audit"
	"github.com/Pon1147/botqr2/internal/qrprofile"
)

// Encoder renders the stored payment URL for the QR endpoint.
type Encoder interface {
	Encode(content string) ([]byte, error)
}

type Handler struct {
	store *qrprofile.Store
	enc   Encoder
	log   *audit.Logger
}

func New(store *qrprofile.Store, enc Encoder, log *audit.Logger) *Handler {
	return &Handler{store: store, enc: enc, log: log}
}

func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.store.Get(c.Params("id"))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(p)
}

type setRequest struct {
	Bank    string `json:"bank"`
	Account string `json:"account"`
	URL     string `json:"url"`
	Logo    string `json:"logo"`
}

func (h *Handler) Set(c *fiber.Ctx) error {
	var req setRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}

	p, err := h.store.Set(c.Context(), c.Params("id"), qrprofile.Profile{
		Bank:    req.Bank,
		Account: req.Account,
		URL:     req.URL,
		Logo:    req.Logo,
	})
	if err != nil && !errors.Is(err, qrprofile.ErrMirrorWrite) {
		return mapErr(err)
	}

	h.log.Infof("[setqr] profile set for %s (%s / %s)", p.Identity, p.Bank, p.Account)
	return c.JSON(result(p, err))
}

type updateFieldRequest struct {
	Field string `json:"field"` // bank | account | url | logo
	Value string `json:"value"`
}

func (h *Handler) UpdateField(c *fiber.Ctx) error {
	var req updateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}

	p, err := h.store.UpdateField(c.Context(), c.Params("id"), req.Field, req.Value)
	if err != nil && !errors.Is(err, qrprofile.ErrMirrorWrite) {
		return mapErr(err)
	}

	h.log.Infof("[setqr] profile %s field %s updated", p.Identity, req.Field)
	return c.JSON(result(p, err))
}

func (h *Handler) Remove(c *fiber.Ctx) error {
	id := c.Params("id")

	err := h.store.Remove(c.Context(), id)
	if err != nil && !errors.Is(err, qrprofile.ErrMirrorWrite) {
		return mapErr(err)
	}

	h.log.Infof("[removeqr] profile removed for %s", id)
	out := fiber.Map{"ok": true}
	if errors.Is(err, qrprofile.ErrMirrorWrite) {
		out["syncWarning"] = "removed locally, remote sync failed"
	}
	return c.JSON(out)
}

// QR renders the profile's payment URL as a PNG.
func (h *Handler) QR(c *fiber.Ctx) error {
	p, err := h.store.Get(c.Params("id"))
	if err != nil {
		return mapErr(err)
	}

	png, err := h.enc.Encode(p.URL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not render qr code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func result(p *qrprofile.Profile, err error) fiber.Map {
	out := fiber.Map{"profile": p}
	if errors.Is(err, qrprofile.ErrMirrorWrite) {
		out["syncWarning"] = "saved locally, remote sync failed"
	}
	return out
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, qrprofile.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, qrprofile.ErrInvalidURL):
		return fiber.NewError(fiber.StatusBadRequest, "payment url is not valid")
	case errors.Is(err, qrprofile.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "qr profile not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
