package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deiva0304/BUDS-Crochet/internal/config"
	"github.com/deiva0304/BUDS-Crochet/internal/server"
	"github.com/deiva0304/BUDS-Crochet/pkg/auth"
	"github.com/deiva0304/BUDS-Crochet/pkg/cache"
	"github.com/deiva0304/BUDS-Crochet/pkg/observability"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/session"
	"github.com/deiva0304/BUDS-Crochet/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API used by the web client.

Every client edits its own pattern, selected by the X-Pattern-Session
header. Saved patterns are kept in the configured store (memory, sqlite
or mongo) and rendered previews in the configured cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides server.addr)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	// The more verbose of --verbose and log.level wins.
	if level := cfg.Log.ParsedLevel(); level < c.Logger.GetLevel() {
		c.SetLogLevel(level)
	}
	observability.NewLogHooks(c.Logger).Install()
	defer observability.Reset()

	cc, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cc.Close()
	if fc, ok := cc.(*cache.FileCache); ok {
		c.Logger.Debug("file cache", "dir", fc.Dir())
	}

	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	accounts, err := newAuth(cfg.Auth)
	if err != nil {
		return fmt.Errorf("open accounts: %w", err)
	}
	go accounts.Run(ctx, cfg.Server.CleanupInterval)

	chart := c.newChart(cfg, cc)
	sessions := session.NewManager(func() *pattern.Pattern {
		return c.newPattern(cfg, chart)
	}, cfg.Server.SessionTTL, session.WithMaxSessions(cfg.Server.MaxSessions))
	go sessions.Run(ctx, cfg.Server.CleanupInterval)

	c.Logger.Info("starting server",
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"users", cfg.Auth.UsersFile,
		"formats", cfg.Render.Formats,
		"session_ttl", cfg.Server.SessionTTL,
		"max_sessions", cfg.Server.MaxSessions)

	srv := server.New(server.Config{
		Sessions:     sessions,
		Store:        st,
		Auth:         accounts,
		Chart:        chart,
		Logger:       c.Logger,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// newAuth opens the account service; without a users file accounts are
// kept in memory.
func newAuth(cfg config.Auth) (*auth.Service, error) {
	opts := auth.Options{TokenTTL: cfg.TokenTTL}
	if cfg.UsersFile == "" {
		return auth.New(opts), nil
	}
	return auth.Open(cfg.UsersFile, opts)
}

// newStore opens the saved-pattern store selected by cfg.
func newStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreSQLite:
		return store.NewSQLiteStore(cfg.SQLitePath)
	case config.StoreMongo:
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return store.NewMemoryStore(), nil
	}
}
