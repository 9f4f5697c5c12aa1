// Package cli implements ordersctl, the operator CLI for the order store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Apurer/dairy-storefront/internal/app/api"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/export"
	platformmongo "github.com/Apurer/dairy-storefront/internal/platform/mongo"
	platformobservability "github.com/Apurer/dairy-storefront/internal/platform/observability"
)

// Opener connects the storage backends for one command run.
type Opener func(ctx context.Context, cfg api.Config, logger *slog.Logger) (*api.Backends, func(), error)

// UploaderFactory builds the S3 client used by export.
type UploaderFactory func(ctx context.Context, region string) (export.PutObjectAPI, error)

type options struct {
	opener   Opener
	uploader UploaderFactory
	now      func() time.Time
}

type Option func(*options)

func WithOpener(opener Opener) Option {
	return func(o *options) { o.opener = opener }
}

func WithUploader(factory UploaderFactory) Option {
	return func(o *options) { o.uploader = factory }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewRootCommand assembles ordersctl. Settings come from flags, ORDERS_* env
// vars and an optional $HOME/.ordersctl.yaml, in that order of precedence.
func NewRootCommand(opts ...Option) *cobra.Command {
	o := options{
		opener: api.OpenBackends,
		uploader: func(ctx context.Context, region string) (export.PutObjectAPI, error) {
			return export.NewClient(ctx, region)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	var cfgFile string
	root := &cobra.Command{
		Use:           "ordersctl",
		Short:         "Inspect and manage dairy storefront orders",
		Long:          `ordersctl lists, filters and updates orders directly against the configured order store, seeds demo data, and exports snapshots to S3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, v, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ordersctl.yaml)")
	root.PersistentFlags().String("store", string(api.StoreMemory), "order store: memory, mongo or postgres")
	root.PersistentFlags().String("postgres-dsn", "", "PostgreSQL DSN")
	root.PersistentFlags().String("mongo-uri", "", "MongoDB connection URI")
	root.PersistentFlags().String("mongo-database", platformmongo.DefaultDatabase, "MongoDB database name")
	root.PersistentFlags().Int("demo-orders", 20, "demo orders generated when the store is memory")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	_ = v.BindPFlags(root.PersistentFlags())

	env := &environment{v: v, opts: o}
	root.AddCommand(
		newListCommand(env),
		newStatsCommand(env),
		newSetStatusCommand(env),
		newSeedCommand(env),
		newExportCommand(env),
	)
	return root
}

// Execute runs ordersctl against os.Args.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".ordersctl")
	}
	v.SetEnvPrefix("ORDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	return nil
}

// environment is shared by every subcommand.
type environment struct {
	v    *viper.Viper
	opts options
}

func (e *environment) logger(cmd *cobra.Command) *slog.Logger {
	return platformobservability.NewLogger(cmd.ErrOrStderr(), "text", e.v.GetString("log-level"))
}

func (e *environment) config() (api.Config, error) {
	cfg := api.Config{
		OrderStore:    api.StoreKind(strings.ToLower(e.v.GetString("store"))),
		PostgresDSN:   e.v.GetString("postgres-dsn"),
		MongoURI:      e.v.GetString("mongo-uri"),
		MongoDatabase: e.v.GetString("mongo-database"),
	}
	switch cfg.OrderStore {
	case api.StoreMemory:
	case api.StoreMongo:
		if cfg.MongoURI == "" {
			return api.Config{}, errors.New("--mongo-uri is required for the mongo store")
		}
	case api.StorePostgres:
		if cfg.PostgresDSN == "" {
			return api.Config{}, errors.New("--postgres-dsn is required for the postgres store")
		}
	default:
		return api.Config{}, fmt.Errorf("unknown store %q", cfg.OrderStore)
	}
	return cfg, nil
}

// open connects the backends; a memory store is pre-filled with demo orders.
func (e *environment) open(cmd *cobra.Command) (*api.Backends, func(), error) {
	cfg, err := e.config()
	if err != nil {
		return nil, func() {}, err
	}
	logger := e.logger(cmd)
	backends, cleanup, err := e.opts.opener(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, func() {}, err
	}
	if cfg.OrderStore == api.StoreMemory {
		if err := api.SeedDemoOrders(cmd.Context(), backends, e.v.GetInt("demo-orders"), logger); err != nil {
			cleanup()
			return nil, func() {}, err
		}
	}
	return backends, cleanup, nil
}
