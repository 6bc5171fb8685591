package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kelvyn2012/Expence-tracker-BE/internal/di"
)

func main() {
	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1], os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	a, err := di.InitializeApp()
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		a.Logger.Info("server starting", "addr", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		a.Logger.Error("shutdown", "error", err)
	}
}

func runCommand(name string, args []string) error {
	switch name {
	case "migrate":
		runner, err := di.InitializeMigrationRunner()
		if err != nil {
			return err
		}
		return runner.Run()
	case "verify-email":
		if len(args) != 1 {
			return fmt.Errorf("usage: api verify-email <email>")
		}
		runner, err := di.InitializeMigrationRunner()
		if err != nil {
			return err
		}
		return runner.VerifyEmail(args[0])
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}
