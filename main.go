package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/cppla/microblog/config"
	"github.com/cppla/microblog/routes"
	"github.com/cppla/microblog/services"
	"github.com/cppla/microblog/utils"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "microblog",
		Short:         "Microblogging server: users, posts, follows and feeds",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join("config", "config.json"), "Config file path (JSON)")

	cmd.AddCommand(
		serveCmd(&configPath),
		migrateCmd(&configPath),
		resetTokenCmd(&configPath),
	)
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			rc := utils.NewRedis(utils.RedisOptions{
				Host:     cfg.RedisHost,
				Port:     cfg.RedisPort,
				DB:       cfg.RedisDB,
				Password: cfg.RedisPassword,
			})
			if rc != nil {
				defer rc.Close()
			}

			r := routes.SetupRouter(cfg, db, rc)
			utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
			return utils.GraceServer(":"+cfg.AppPort, r)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or extend the user, post and followers tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			// InitDatabase migrates on open
			if _, _, err := bootstrap(*configPath); err != nil {
				return err
			}
			utils.Sugar.Info("schema is up to date")
			return nil
		},
	}
}

func resetTokenCmd(configPath *string) *cobra.Command {
	var expiresIn time.Duration

	cmd := &cobra.Command{
		Use:   "reset-token <username>",
		Short: "Print a password reset token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			users := services.NewUserService(db)
			user, err := users.GetByUsername(context.Background(), args[0])
			if err != nil {
				return err
			}
			resets := services.NewResetTokens(cfg.SecretKey, time.Duration(cfg.ResetTokenTTLSec)*time.Second, users)
			token, err := resets.Issue(user, expiresIn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "Token lifetime (default: configured reset token ttl)")
	return cmd
}

func bootstrap(configPath string) (config.AppConfig, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, err
	}
	if err := utils.InitLogger(utils.LogOptions{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}); err != nil {
		return cfg, nil, err
	}
	db, err := config.InitDatabase(cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, db, nil
}
