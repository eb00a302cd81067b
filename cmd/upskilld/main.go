package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/config"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/awsclient"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/db"
	httpinfra "github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/http"
)

func main() {
	cfg := config.FromEnv()

	dsn := cfg.PostgresDSN
	if dsn == "" && cfg.PostgresDSNSecretID != "" {
		fetched, err := fetchDSNSecret(cfg)
		if err != nil {
			log.Fatalf("failed to fetch postgres dsn from secrets manager: %v", err)
		}
		dsn = fetched
	}

	store, err := db.NewStoreWithDSN(dsn)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	srv, err := httpinfra.NewServer(cfg, store)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func fetchDSNSecret(cfg config.Config) (string, error) {
	client, err := awsclient.NewFromConfig(cfg)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	raw, err := client.GetSecret(ctx, cfg.PostgresDSNSecretID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
