// Package token provides the operator command that mints an access token
// for an existing user.
package token

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/auth"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/config"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/database"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/repository"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

var (
	env        string
	configPath string
	userID     uint
	externalID int64
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for an existing user",
		Long:  `Look up a user by internal or external ID and print a signed access token for it.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().UintVar(&userID, "user-id", 0, "Internal user ID")
	cmd.Flags().Int64Var(&externalID, "external-id", 0, "External user ID")
	cmd.MarkFlagsMutuallyExclusive("user-id", "external-id")
	cmd.MarkFlagsOneRequired("user-id", "external-id")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ModeForEnv(env), configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := repository.NewUserRepository(database.Get(), log)
	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)

	return Mint(cmd.Context(), cmd, repo, jwtService, userID, externalID)
}

// Mint resolves the user and writes the token and its expiry to cmd's output.
func Mint(ctx context.Context, cmd *cobra.Command, repo user.Repository, jwtService *auth.JWTService, id uint, extID int64) error {
	var (
		u   *user.User
		err error
	)
	if id != 0 {
		u, err = repo.GetByID(ctx, id)
	} else {
		u, err = repo.GetByExternalID(ctx, extID)
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return fmt.Errorf("user not found")
	}

	signed, expiresAt, err := jwtService.Generate(u.ID())
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", signed)
	fmt.Fprintf(cmd.ErrOrStderr(), "user %d (external %d) token expires at %s\n",
		u.ID(), u.ExternalID(), expiresAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
