package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings loaded from the environment.
type Config struct {
	SecretKey      string
	SessionMinutes int
	VarDir         string
	DBPath         string
	UploadDir      string
	WatermarkedDir string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	varDir := getenv("VAR_DIR", "var")
	cfg := &Config{
		SecretKey:      getenv("SECRET_KEY", "dev-only-secret-key-change-me"),
		SessionMinutes: 60,
		VarDir:         varDir,
		DBPath:         getenv("DB_PATH", filepath.Join(varDir, "app.db")),
		UploadDir:      getenv("UPLOAD_DIR", filepath.Join(varDir, "uploads")),
		WatermarkedDir: getenv("WATERMARKED_DIR", filepath.Join(varDir, "watermarked")),
	}

	if v := os.Getenv("SESSION_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionMinutes = n
		}
	}
	return cfg
}

// EnsureDirs creates the var, upload and watermarked directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.VarDir, c.UploadDir, c.WatermarkedDir} {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
