// Command reviewctl runs operator tasks against the review database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"document-review-api/config"
	"document-review-api/middleware"
	"document-review-api/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Operator tasks for the document review API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(migrateCmd(), expireCmd(), tokenCmd())
	return cmd
}

func openDB() (*gorm.DB, error) {
	config.Logger = config.Logger.With("cmd", "reviewctl")
	return config.OpenDB()
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the review workflow tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}

func expireCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Expire pending review requests past their response deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			wf := services.NewReviewWorkflow(services.WorkflowDeps{DB: db, Logger: config.Logger})
			n, err := wf.ExpireOverdue(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d review request(s)\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum time for the sweep")
	return cmd
}

func tokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for an active user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			user, err := services.NewReviewRepository(db).FindUser(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}
			if !user.IsActive {
				return fmt.Errorf("user %s is inactive", id)
			}
			token, err := middleware.IssueToken(user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
