package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/warungpos/warung-pos/internal/auth"
	"github.com/warungpos/warung-pos/internal/config"
	"github.com/warungpos/warung-pos/internal/outbox"
	"github.com/warungpos/warung-pos/internal/pos"
	"github.com/warungpos/warung-pos/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var svc *pos.Service
	if cfg.DataSource == "fixture" {
		fixture, err := pos.NewFixture(ctx)
		if err != nil {
			log.Fatalf("fixture data source: %v", err)
		}
		svc = fixture
	} else {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("create data dir: %v", err)
			}
		}
		st, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer st.Close()

		if err := pos.Seed(ctx, st); err != nil {
			log.Fatalf("seed store: %v", err)
		}
		svc = pos.NewService(st, outbox.New(st.Status))
	}

	au, err := auth.New(cfg.DemoUsername, cfg.DemoPassword)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	r := newRouter(svc, svc.Outbox(), au)
	log.Printf("pos-server listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
