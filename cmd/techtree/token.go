package main

import (
	"errors"
	"fmt"
	"time"

	"techtree-backend/infrastructure/config"
	"techtree-backend/pkg/auth"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if !cfg.AuthEnabled() {
				return errors.New("JWT_SECRET is not set")
			}

			generator, err := auth.NewJWTGenerator(auth.JWTConfig{
				SecretKey: cfg.JWTSecret,
				Issuer:    cfg.JWTIssuer,
				Audience:  []string{auth.DefaultAudience},
			}, ttl)
			if err != nil {
				return err
			}

			token, err := generator.GenerateToken(subject, email, roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject (user id)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "Role claims, e.g. admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
