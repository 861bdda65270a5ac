package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Pon1147/botqr2/internal/audit"
	capitaltracker "github.com/Pon1147/botqr2/internal/capital"
	"github.com/Pon1147/botqr2/internal/config"
	authhandler "github.com/Pon1147/botqr2/internal/delivery/http/handler/auth"
	capitalhandler "github.com/Pon1147/botqr2/internal/delivery/http/handler/capital"
	paymenthandler "github.com/Pon1147/botqr2/internal/delivery/http/handler/payment"
	profilehandler "github.com/Pon1147/botqr2/internal/delivery/http/handler/profile"
	reporthandler "github.com/Pon1147/botqr2/internal/delivery/http/handler/report"
	viewhandler "github.com/Pon1147/botqr2/internal/delivery/http/handler/view"
	"github.com/Pon1147/botqr2/internal/delivery/middleware"
	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/qr"
	"github.com/Pon1147/botqr2/internal/qrprofile"
	"github.com/Pon1147/botqr2/internal/session"
	authuc "github.com/Pon1147/botqr2/internal/usecase/auth"
)

// Deps carries the stores the routes operate on. They are constructed and
// hydrated once in app.New and passed by handle, never as globals.
type Deps struct {
	Ledger   *ledger.Store
	Profiles *qrprofile.Store
	Capital  *capitaltracker.Tracker
	Sessions *session.Manager
	Encoder  *qr.Encoder
	Log      *audit.Logger
}

func RegisterRoutes(app *fiber.App, cfg config.Config, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")

	// Auth wiring
	loginUC := authuc.NewAdminLoginUsecase(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.JWTExpiresMinutes)
	loginHandler := authhandler.NewAdminLoginHandler(loginUC)

	// Public route
	api.Post("/admin/login", loginHandler.Handle)

	// Protected admin group
	admin := api.Group("/admin", middleware.RequireAdminJWT(middleware.JWTConfig{
		Secret: cfg.JWTSecret,
	}))

	admin.Get("/me", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":    c.Locals("admin_id"),
			"email": c.Locals("admin_email"),
		})
	})

	// Payments
	paymentH := paymenthandler.New(d.Ledger, d.Log, cfg.PageSize)
	admin.Post("/payments", paymentH.Create)
	admin.Get("/payments", paymentH.List)
	admin.Get("/payments/:id", paymentH.Get)
	admin.Post("/payments/:id/confirm", paymentH.Confirm)
	admin.Post("/payments/:id/cancel", paymentH.Cancel)
	admin.Get("/users/:id/payments", paymentH.ByUser)

	// Reports
	reportH := reporthandler.New(d.Ledger)
	admin.Get("/reports/top", reportH.Top)
	admin.Get("/reports/daily", reportH.Daily)

	// Capital
	capitalH := capitalhandler.New(d.Capital, d.Ledger, d.Log)
	admin.Get("/capital", capitalH.Show)
	admin.Post("/capital", capitalH.Add)

	// QR profiles
	profileH := profilehandler.New(d.Profiles, d.Encoder, d.Log)
	admin.Get("/profiles/:id", profileH.Get)
	admin.Put("/profiles/:id", profileH.Set)
	admin.Patch("/profiles/:id", profileH.UpdateField)
	admin.Delete("/profiles/:id", profileH.Remove)
	admin.Get("/profiles/:id/qr", profileH.QR)

	// Interactive paginated views
	viewH := viewhandler.New(d.Sessions, d.Ledger, cfg.PageSize)
	admin.Post("/views", viewH.Open)
	admin.Get("/views/:id", viewH.Get)
	admin.Post("/views/:id/nav", viewH.Navigate)
	admin.Post("/views/:id/close", viewH.Close)
}
