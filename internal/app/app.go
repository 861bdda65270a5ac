package app

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Pon1147/botqr2/internal/audit"
	capitaltracker "github.com/Pon1147/botqr2/internal/capital"
	"github.com/Pon1147/botqr2/internal/config"
	httpdelivery "github.com/Pon1147/botqr2/internal/delivery/http"
	"github.com/Pon1147/botqr2/internal/ledger"
	"github.com/Pon1147/botqr2/internal/qr"
	"github.com/Pon1147/botqr2/internal/qrprofile"
	"github.com/Pon1147/botqr2/internal/repository/sheets"
	"github.com/Pon1147/botqr2/internal/session"
)

type App struct {
	f    *fiber.App
	port string
}

func New() *App {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	values, err := sheets.NewValues(ctx, cfg.SpreadsheetID, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("sheets connect failed: %v", err)
	}
	repo := sheets.NewRepo(values, cfg.DefaultSellerID)

	auditLog := audit.New(repo)
	encoder := qr.NewEncoder()

	profiles := qrprofile.New(repo, encoder)
	store := ledger.New(repo, profiles, cfg.DefaultSellerID)
	capital := capitaltracker.New(repo)
	sessions := session.NewManager(time.Duration(cfg.SessionTTLMinutes) * time.Minute)

	// Hydrate in-memory state from the last written snapshot. A dead backend
	// is fatal here: without the system of record there is nothing to serve.
	snap, err := repo.LoadAll(ctx)
	if err != nil {
		log.Fatalf("hydrate from spreadsheet failed: %v", err)
	}
	store.Replace(snap.Transactions)
	profiles.Replace(snap.Profiles)
	capital.Set(snap.Capital)
	auditLog.Infof("hydrated %d transactions, %d profiles, capital %d",
		store.Len(), profiles.Len(), capital.Current())

	f := fiber.New(fiber.Config{
		AppName: "botqr2",
	})

	f.Use(recover.New())
	f.Use(logger.New())

	httpdelivery.RegisterRoutes(f, cfg, httpdelivery.Deps{
		Ledger:   store,
		Profiles: profiles,
		Capital:  capital,
		Sessions: sessions,
		Encoder:  encoder,
		Log:      auditLog,
	})

	return &App{f: f, port: cfg.Port}
}

func (a *App) Run() error {
	return a.f.Listen(":" + a.port)
}
