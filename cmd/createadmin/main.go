// Command createadmin creates an administrator account. Admins cannot
// self-register through the API.
//
// Usage:
//
//	createadmin -name "Site Admin" -email admin@example.com -password 's3cret-pass'
//
// The password may also be passed through ADMIN_PASSWORD to keep it out of
// the shell history.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/taskconnect/marketplace-api/cmd/bootstrap"
	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/service"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/auth"
	"github.com/taskconnect/marketplace-api/internal/infrastructure/config"
	"github.com/taskconnect/marketplace-api/pkg/logger"
)

func main() {
	name := flag.String("name", "Administrator", "display name")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password, at least 8 characters")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	if err := run(*name, *email, *password, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "createadmin: %v\n", err)
		os.Exit(1)
	}
}

func run(name, email, password string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := bootstrap.Logger(cfg)

	store, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}()

	registration := service.NewRegistrationService(store.Identities, auth.NewBcryptHasher(12), logger.Component("createadmin"))
	admin, err := registration.CreateAdmin(ctx, name, email, password)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid input: %s", ve.Error())
		}
		return err
	}

	fmt.Printf("admin created: id=%s email=%s\n", admin.ID, admin.Email)
	return nil
}
