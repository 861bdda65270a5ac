package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	SpreadsheetID     string
	CredentialsFile   string
	DefaultSellerID   string
	AdminEmail        string
	AdminPasswordHash string // bcrypt, generate with cmd/hash
	JWTSecret         string
	JWTExpiresMinutes int
	PageSize          int
	SessionTTLMinutes int
}

func Load() Config {
	_ = godotenv.Load()

	spreadsheetID := getEnv("SPREADSHEET_ID", "")
	adminEmail := getEnv("ADMIN_EMAIL", "")
	adminHash := getEnv("ADMIN_PASSWORD_HASH", "")

	if spreadsheetID == "" {
		log.Fatal("SPREADSHEET_ID is required")
	}
	if adminEmail == "" || adminHash == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		SpreadsheetID:     spreadsheetID,
		CredentialsFile:   getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		DefaultSellerID:   getEnv("DEFAULT_SELLER_ID", ""),
		AdminEmail:        adminEmail,
		AdminPasswordHash: adminHash,
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTExpiresMinutes: getEnvInt("JWT_EXPIRES_MINUTES", 60),
		PageSize:          getEnvInt("PAGE_SIZE", 5),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 5),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
