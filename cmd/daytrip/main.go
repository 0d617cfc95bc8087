package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chrisdamba/daytrip/internal/cache"
	"github.com/chrisdamba/daytrip/internal/session"
	"github.com/chrisdamba/daytrip/pkg/config"
	"github.com/chrisdamba/daytrip/pkg/gateway"
	"github.com/chrisdamba/daytrip/pkg/health"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	log     *slog.Logger
	in      io.Reader
	out     io.Writer
	store   *session.Store
	db      *pgxpool.Pool
	redis   *redis.Client
	gateway *gateway.Client
	shell   *Shell
	status  *http.Server
}

func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		config: cfg,
		in:     in,
		out:    out,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	a.setupLogger()

	if err := a.setupSession(ctx); err != nil {
		return fmt.Errorf("session setup failed: %w", err)
	}

	a.setupGateway(ctx)
	a.setupShell()
	a.setupStatusServer()

	return nil
}

func (a *App) setupLogger() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.config.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(a.config.Log.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	a.log = slog.New(handler)
	slog.SetDefault(a.log)
}

func (a *App) setupSession(ctx context.Context) error {
	var backend session.Backend

	switch a.config.Session.Backend {
	case "postgres":
		pgCfg, err := pgxpool.ParseConfig(a.config.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to parse database config: %w", err)
		}

		pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}

		pg := session.NewPostgresBackend(pool, pool.Close)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to create sessions table: %w", err)
		}
		a.db = pool
		backend = pg

	default:
		kv, err := session.OpenBadger(a.config.Session.Dir)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		backend = kv
	}

	a.store = session.NewStore(backend,
		session.WithProfile(a.config.Session.Profile),
		session.WithLogger(a.log),
	)
	return nil
}

func (a *App) setupGateway(ctx context.Context) {
	opts := []gateway.Option{
		gateway.WithBaseURL(a.config.API.BaseURL),
		gateway.WithHTTPClient(&http.Client{Timeout: a.config.API.Timeout}),
		gateway.WithTokenSource(a.store),
		gateway.WithLogger(a.log),
	}

	if a.config.Cache.Enabled {
		cc := a.config.Cache
		if client := cache.Dial(ctx, cc.Addr, cc.Password, cc.DB); client != nil {
			a.redis = client
			opts = append(opts, gateway.WithCache(cache.NewRedis(client, cc.Prefix, a.log), cc.TTL))
		} else {
			a.log.Warn("redis unreachable, catalog cache disabled", "addr", cc.Addr)
		}
	}

	a.gateway = gateway.NewClient(opts...)
}

func (a *App) setupShell() {
	reporter := &health.Reporter{
		BackendURL:   a.config.API.BaseURL,
		SessionStore: a.config.Session.Backend,
		Probe: func(ctx context.Context) error {
			_, err := a.gateway.Categories(ctx)
			return err
		},
		Authenticated: a.store.IsAuthenticated,
	}

	a.shell = NewShell(ShellConfig{
		In:       a.in,
		Out:      a.out,
		API:      a.gateway,
		Store:    a.store,
		Reporter: reporter,
		Payment:  a.config.Payment,
		Fetcher:  imageFetcher(&http.Client{Timeout: a.config.API.Timeout}),
		Logger:   a.log,
	})
}

func (a *App) setupStatusServer() {
	if a.config.Status.Address == "" {
		return
	}
	router := http.NewServeMux()
	router.HandleFunc("/status", health.HealthGet(a.shell.reporter))

	a.status = &http.Server{
		Addr:         a.config.Status.Address,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	statusErrors := make(chan error, 1)
	if a.status != nil {
		go func() {
			a.log.Info("status endpoint listening", "addr", a.status.Addr)
			if err := a.status.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				statusErrors <- err
			}
		}()
	}

	shellDone := make(chan error, 1)
	go func() {
		shellDone <- a.shell.Run(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var runErr error
	select {
	case err := <-shellDone:
		if err != nil && !errors.Is(err, io.EOF) {
			runErr = fmt.Errorf("shell error: %w", err)
		}
	case err := <-statusErrors:
		runErr = fmt.Errorf("status server error: %w", err)
	case <-shutdown:
		a.log.Info("starting graceful shutdown")
	case <-ctx.Done():
	}

	if err := a.Shutdown(ctx); err != nil {
		return err
	}
	return runErr
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.status != nil {
		if err := a.status.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("status server shutdown failed: %w", err)
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("session store close failed: %w", err)
		}
	}

	if a.redis != nil {
		a.redis.Close()
	}

	return nil
}

func imageFetcher(client *http.Client) func(ctx context.Context, url string) error {
	return func(ctx context.Context, url string) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d", resp.StatusCode)
		}
		return nil
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app := NewApp(cfg, os.Stdin, os.Stdout)
	if err := app.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
