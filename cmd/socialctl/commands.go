package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"ruya/internal/auth"
	"ruya/internal/cache"
	"ruya/internal/config"
	"ruya/internal/database"
	"ruya/internal/middleware"
	"ruya/internal/seed"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type cli struct {
	sqlitePath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "socialctl",
		Short:         "Administer the Ruya social graph store",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg
			middleware.ConfigureLogger(cfg.Env, cmd.ErrOrStderr())
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.sqlitePath, "sqlite", "",
		"Use a local SQLite file instead of the configured PostgreSQL database")

	rootCmd.AddCommand(c.migrateCmd())
	rootCmd.AddCommand(c.seedCmd())
	rootCmd.AddCommand(c.tokenCmd())
	rootCmd.AddCommand(c.configCmd())
	return rootCmd
}

// openDB returns the target database with the schema applied.
func (c *cli) openDB() (*gorm.DB, error) {
	if c.sqlitePath == "" {
		db, err := database.Connect(c.cfg)
		if err != nil {
			return nil, err
		}
		if c.cfg.IsProduction() {
			// Connect skips migration in production.
			if err := database.Migrate(db); err != nil {
				return nil, err
			}
		}
		return db, nil
	}

	db, err := database.Open(sqlite.Open(c.sqlitePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.sqlitePath, err)
	}
	// SQLite allows a single writer.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables, indexes and constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := c.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with generated users, posts and engagement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.IsProduction() {
				return fmt.Errorf("refusing to seed demo data in production")
			}
			db, err := c.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			res, err := seed.NewSeeder(db, opts).Run(cmd.Context())
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	f.IntVar(&opts.PostsPerUser, "posts-per-user", opts.PostsPerUser, "Dream posts per user")
	f.IntVar(&opts.FollowsPerUser, "follows-per-user", opts.FollowsPerUser, "Follow attempts per user")
	f.IntVar(&opts.LikesPerPost, "likes-per-post", opts.LikesPerPost, "Like attempts per post")
	f.IntVar(&opts.CommentsPerPost, "comments-per-post", opts.CommentsPerPost, "Comments per post")
	f.Int64Var(&opts.RandSeed, "rand-seed", opts.RandSeed, "Seed for the fake data generator; 0 picks one at random")
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and revoke API access tokens",
	}

	var (
		userID   uint
		username string
		ttl      time.Duration
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed access token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == 0 {
				return fmt.Errorf("--user-id is required")
			}
			token, jti, err := auth.Issue(c.cfg, userID, username, ttl)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), map[string]string{
				"token":      token,
				"jti":        jti,
				"user_id":    strconv.FormatUint(uint64(userID), 10),
				"expires_at": time.Now().Add(ttl).UTC().Format(time.RFC3339),
			})
		},
	}
	issueCmd.Flags().UintVar(&userID, "user-id", 0, "Subject user id")
	issueCmd.Flags().StringVar(&username, "username", "", "Username claim")
	issueCmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTTL, "Token lifetime")

	var (
		jti       string
		revokeTTL time.Duration
	)
	revokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a token by its id until it would have expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jti == "" {
				return fmt.Errorf("--jti is required")
			}
			client, err := cache.NewClient(c.cfg.RedisURL)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if err := cache.NewRevocationStore(client).Revoke(ctx, jti, revokeTTL); err != nil {
				return fmt.Errorf("failed to revoke %s: %w", jti, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s for %s\n", jti, revokeTTL)
			return nil
		},
	}
	revokeCmd.Flags().StringVar(&jti, "jti", "", "Token id to revoke")
	revokeCmd.Flags().DurationVar(&revokeTTL, "ttl", auth.DefaultTTL, "How long the revocation is kept")

	tokenCmd.AddCommand(issueCmd, revokeCmd)
	return tokenCmd
}

func (c *cli) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration without secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeYAML(cmd.OutOrStdout(), c.cfg.Redacted())
		},
	})
	return configCmd
}

