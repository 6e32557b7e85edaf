package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/541v4r54n/Web-Security-Experiment/config"
	"github.com/541v4r54n/Web-Security-Experiment/controllers"
	"github.com/541v4r54n/Web-Security-Experiment/database"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "listen address")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.EnsureDirs(); err != nil {
		slog.Error("creating data directories failed", "err", err)
		os.Exit(1)
	}
	if err := database.Connect(cfg.DBPath); err != nil {
		slog.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("database migration failed", "err", err)
		os.Exit(1)
	}

	r := controllers.NewRouter(cfg)
	slog.Info("listening", "addr", *addr)
	if err := r.Run(*addr); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
