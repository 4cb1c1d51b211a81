package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/item"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/purchase"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-shop-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-shop-go/internal/view"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-shop-go/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// init logger
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Infow("starting service-shop-go", "addr", cfg.Addr, "db_driver", cfg.Database.Driver)

	// init db
	db, err := database.Connect(cfg.Database)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	applied, err := database.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		sugar.Fatalf("db migrate: %v", err)
	}
	sugar.Infow("migrations applied", "count", applied)

	secret, generated, err := session.LoadSecret(cfg.Session)
	if err != nil {
		sugar.Fatalf("session secret: %v", err)
	}
	if generated {
		sugar.Warn("SESSION_SECRET not set; generated a random secret, sessions end on restart")
	}
	codec := session.NewCodec(secret)

	ids, err := utilities.NewIDNode(cfg.SnowflakeNode)
	if err != nil {
		sugar.Fatalf("snowflake node: %v", err)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		sugar.Fatalf("templates: %v", err)
	}

	users := user.NewUserService(db, nil, nil)
	users.AdminUsername = cfg.AdminUsername
	users.StartingBalance = cfg.StartingBalance
	if cfg.AdminPassword != "" {
		created, err := users.EnsureAdmin(context.Background(), cfg.AdminPassword)
		if err != nil {
			sugar.Fatalf("ensure admin: %v", err)
		}
		if created {
			sugar.Infow("admin account created", "username", cfg.AdminUsername)
		}
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// mount http server
	handler := router.RegisterRoutes(router.Deps{
		Logger:    sugar,
		DB:        db,
		Codec:     codec,
		Cookies:   session.NewCookies(cfg.Session),
		View:      renderer,
		Users:     users,
		Items:     item.NewService(db, userrepo.NewUserRepo(db)),
		Purchases: purchase.NewService(db, ids),
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Info("service is running; press Ctrl+C to stop")

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for in-flight requests
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
