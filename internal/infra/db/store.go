package db

import (
	"fmt"
	"log"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	return NewStoreWithDSN(cfg.PostgresDSN)
}

// NewStoreWithDSN exists so the DSN can come from Secrets Manager instead of
// the environment.
func NewStoreWithDSN(dsn string) (*Store, error) {
	if dsn == "" {
		log.Printf("POSTGRES_DSN not set; starting in no-db mode.")
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Store{DB: gdb}, nil
}
