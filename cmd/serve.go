package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/suanho/compass/internal/ai"
	"github.com/suanho/compass/internal/ai/gemini"
	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/logger"
	"github.com/suanho/compass/internal/matching"
	"github.com/suanho/compass/internal/normalize"
	"github.com/suanho/compass/internal/report"
	"github.com/suanho/compass/internal/secrets"
	"github.com/suanho/compass/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultListen          = ":8080"
	shutdownTimeout        = 10 * time.Second
	defaultGeminiLogLength = 500
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the compass API server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address, overrides the config file")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the compass server", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	dsn, err := resolveDSN(config)
	if err != nil {
		logger.Fatal(
			"loading database dsn",
			zap.Error(err),
			zap.String("hint", "set COMPASS_DATABASE_DSN environment variable or the 'database.dsn' key in the configuration file"),
		)
	}

	repo, err := casebook.OpenPostgres(ctx, dsn)
	if err != nil {
		logger.Fatal("connecting to processed cases database", zap.Error(err))
	}
	defer repo.Close()

	tables, err := buildTables(config)
	if err != nil {
		logger.Fatal("loading normalization tables", zap.Error(err))
	}

	var fetchTimeout time.Duration
	if config.Database != nil {
		fetchTimeout = config.Database.FetchTimeout
	}
	store := casebook.NewStore(repo, fetchTimeout, logger)

	weights := matching.DefaultWeights()
	topN := 0
	if config.Matching != nil {
		if config.Matching.Weights != nil {
			weights = *config.Matching.Weights
		}
		topN = config.Matching.TopN
	}
	if err := weights.Validate(); err != nil {
		logger.Fatal("invalid similarity weights", zap.Error(err))
	}

	engine := matching.NewEngine(store, tables, weights, logger)

	advisor, err := buildAdvisor(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the advisor", zap.Error(err))
	}

	opts := []report.Option{}
	if topN > 0 {
		opts = append(opts, report.WithTopN(topN))
	}
	reports := report.NewService(engine, advisor, logger, opts...)

	// Warm the snapshot before accepting traffic. A failed load is logged
	// and the server starts degraded; the first request retries.
	store.EnsureLoaded(ctx)
	logger.Info("casebook loaded", zap.Int("cases", store.Count()))

	listen := strings.TrimSpace(viper.GetString("listen"))
	if listen == "" {
		listen = config.Listen
	}
	if listen == "" {
		listen = defaultListen
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           server.New(store, reports, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("address", listen))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func resolveDSN(config *Config) (string, error) {
	if config == nil || config.Database == nil {
		return "", errors.New("database configuration is required")
	}

	return secrets.Load(secrets.Source{
		Name:  "database dsn",
		Value: config.Database.DSN,
		File:  config.Database.DSNFile,
	})
}

func buildTables(config *Config) (*normalize.Tables, error) {
	tables := normalize.Default()
	if config.Tables == nil {
		return tables, nil
	}
	if config.Tables.Universities != "" {
		if err := tables.LoadUniversityOverrides(config.Tables.Universities); err != nil {
			return nil, err
		}
	}
	if config.Tables.Majors != "" {
		if err := tables.LoadMajorOverrides(config.Tables.Majors); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

// buildAdvisor wires the narrative stack: a Gemini analyst with a static
// fallback behind the failover policy, or the static advisor alone when AI
// is disabled.
func buildAdvisor(ctx context.Context, config *Config, rootLogger *zap.Logger) (ai.Advisor, error) {
	fallback := ai.NewStatic()

	if config.AI == nil || !config.AI.Enabled {
		return fallback, nil
	}

	if provider := strings.ToLower(strings.TrimSpace(config.AI.Provider)); provider != "" && provider != "gemini" {
		return nil, errors.New("unsupported ai provider: " + provider)
	}

	gcfg := config.AI.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(rootLogger, "gemini", gcfg.Model)
	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	maxLogLen := gcfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultGeminiLogLength
	}

	analystLogger := logger.WithCommonFields(rootLogger, "gemini", generator.Model())
	analyst := gemini.NewAnalyst(generator, analystLogger, maxLogLen)

	return ai.NewFailover(analyst, fallback, config.AI.MaxConsecutiveFailures, rootLogger), nil
}
