package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"microblog/internal/app"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/logger"
	"microblog/internal/repositories"
	"microblog/internal/seed"
	"microblog/internal/services"
	"microblog/pkg/rabbitmq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "microblog",
		Short:        "Users and microposts web application",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE:  runMigrate,
		},
		newSeedCmd(),
	)
	return root
}

func newSeedCmd() *cobra.Command {
	opts := seed.DefaultOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with sample users and microposts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts)
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", opts.Users, "sample users besides the admin")
	cmd.Flags().IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "microposts per posting user")
	cmd.Flags().IntVar(&opts.PostingUsers, "posting-users", opts.PostingUsers, "how many users receive microposts")
	return cmd
}

// bootstrap loads configuration, builds the logger and opens the migrated
// database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, log, _, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("Database schema is up to date")
	return nil
}

func runSeed(opts seed.Options) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	userService := services.NewUserService(repositories.NewGORMUserRepository(db), nil, cfg, log)
	micropostService := services.NewMicropostService(repositories.NewGORMMicropostRepository(db), nil, cfg, log)
	return seed.Run(userService, micropostService, log, opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := app.Options{AccessLog: true}

	// --- Revoked session store ---
	var tokens repositories.TokenRepository = repositories.NewGORMTokenRepository(db)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
		}
		tokens = repositories.NewRedisTokenRepository(client)
		log.Info("Revoked sessions stored in Redis", zap.String("addr", cfg.RedisAddr))
	}
	opts.Tokens = tokens

	// --- Initialize RabbitMQ Client ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, log)
		if err != nil {
			log.Warn("Domain events disabled", zap.Error(err))
		} else {
			defer mqClient.Close()
			opts.Publisher = mqClient
			if err := mqClient.ConsumeEvents(rabbitmq.LogEvents(log)); err != nil {
				log.Warn("Failed to start RabbitMQ consumer", zap.Error(err))
			}
		}
	}

	web, err := app.New(cfg, db, log, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeRevokedTokens(ctx, tokens, log)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.AppPort))
		serverErr <- web.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	if err := web.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Error during Fiber shutdown", zap.Error(err))
	}
	log.Info("Server gracefully stopped")
	return nil
}

// purgeRevokedTokens drops expired revocations once an hour until ctx ends.
func purgeRevokedTokens(ctx context.Context, tokens repositories.TokenRepository, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := tokens.PurgeExpired(); err != nil {
				log.Warn("Failed to purge revoked tokens", zap.Error(err))
			}
		}
	}
}
