package database

import (
	"testing"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/config"
)

func TestOpenInvalidDSN(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "%"}
	if _, err := Open(cfg); err == nil {
		t.Fatal("expected postgres open error for invalid DSN")
	}
}
