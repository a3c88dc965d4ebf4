package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/etl"
	"github.com/suanho/compass/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Process raw scraped cases into the processed cases table",
	Run: func(cmd *cobra.Command, _ []string) {
		runETL(cmd)
	},
}

func init() {
	rootCmd.AddCommand(etlCmd)
}

func runETL(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Database == nil || config.Database.SourceDSN == "" {
		logger.Fatal("source database dsn is required",
			zap.String("hint", "set the 'database.source-dsn' key in the configuration file"),
		)
	}

	dsn, err := resolveDSN(config)
	if err != nil {
		logger.Fatal("loading target database dsn", zap.Error(err))
	}

	source, err := etl.OpenSource(ctx, config.Database.SourceDSN)
	if err != nil {
		logger.Fatal("connecting to source database", zap.Error(err))
	}
	defer source.Close()

	target, err := casebook.OpenPostgres(ctx, dsn)
	if err != nil {
		logger.Fatal("connecting to target database", zap.Error(err))
	}
	defer target.Close()

	tables, err := buildTables(config)
	if err != nil {
		logger.Fatal("loading normalization tables", zap.Error(err))
	}

	processor := etl.NewProcessor(tables, logger)
	processed, failed, err := processor.Run(ctx, source, target)
	if err != nil {
		logger.Fatal("etl failed", zap.Error(err))
	}

	if processed == 0 {
		logger.Fatal("etl produced no rows", zap.Error(errors.New("no source cases processed")))
	}

	logger.Info("etl finished", zap.Int("processed", processed), zap.Int("failed", failed))
}
