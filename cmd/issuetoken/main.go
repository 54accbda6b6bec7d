// Command issuetoken mints an access token signed with the configured JWT
// secret, for ops scripts and local testing against the API.
// Usage: go run ./cmd/issuetoken <tenant-id> <user-id> <role> [email]
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"hotelpms/internal/config"
	"hotelpms/internal/domain"
	"hotelpms/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: issuetoken <tenant-id> <user-id> <admin|finance|front_desk|viewer> [email]")
	}
	tenantID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid tenant id: %w", err)
	}
	userID, err := uuid.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	role := domain.UserRole(args[2])
	switch role {
	case domain.RoleAdmin, domain.RoleFinance, domain.RoleFrontDesk, domain.RoleViewer:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	email := ""
	if len(args) > 3 {
		email = args[3]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	token, expiresAt, err := service.NewAuthService(cfg.JWT).IssueToken(service.IssueTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Email:    email,
		Role:     role,
	})
	if err != nil {
		return err
	}

	fmt.Println(token)
	log.Printf("expires at %s", expiresAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
