package cmd

import (
	"log"
	"time"

	"github.com/suanho/compass/internal/matching"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "compass"
)

type Config struct {
	Listen   string          `mapstructure:"listen"`
	Database *DatabaseConfig `mapstructure:"database"`
	Matching *MatchingConfig `mapstructure:"matching"`
	Tables   *TablesConfig   `mapstructure:"tables"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type DatabaseConfig struct {
	DSN          string        `mapstructure:"dsn"`
	DSNFile      string        `mapstructure:"dsn-file"`
	SourceDSN    string        `mapstructure:"source-dsn"`
	FetchTimeout time.Duration `mapstructure:"fetch-timeout"`
}

type MatchingConfig struct {
	TopN    int               `mapstructure:"top-n"`
	Weights *matching.Weights `mapstructure:"weights"`
}

// TablesConfig points to optional JSON files extending the built-in
// university tier and major category tables.
type TablesConfig struct {
	Universities string `mapstructure:"universities"`
	Majors       string `mapstructure:"majors"`
}

type AIConfig struct {
	Enabled                bool          `mapstructure:"enabled"`
	Provider               string        `mapstructure:"provider"`
	MaxConsecutiveFailures int           `mapstructure:"max-consecutive-failures"`
	Gemini                 *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "compass is a graduate application analysis service matching candidate profiles against historical admission cases",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("database.dsn", "COMPASS_DATABASE_DSN"); err != nil {
		log.Fatalf("binding COMPASS_DATABASE_DSN environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is compass.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for serve and etl. Matching from a local profile
	// file works with the built-in defaults.
	if serveCmd.CalledAs() == "" && etlCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
