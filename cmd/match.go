package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/suanho/compass/internal/casebook"
	"github.com/suanho/compass/internal/logger"
	"github.com/suanho/compass/internal/matching"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowComponents = "Show component scores"
	PromptShowCase       = "Show a case in detail"
	PromptDumpToFile     = "Dump matches to file"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

var matchPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowComponents, PromptShowCase, PromptDumpToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a candidate profile against historical cases and print the ranked results",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("profile", "p", "", "path to a candidate profile JSON file (required)")
	matchCmd.Flags().IntP("top-n", "n", 0, "number of matches to return")
	matchCmd.Flags().String("dsn", "", "processed cases database dsn, overrides COMPASS_DATABASE_DSN")
	matchCmd.Flags().BoolP("no-interactive", "y", false, "print matches as JSON and exit without prompting")
	matchCmd.MarkFlagRequired("profile")

	viper.BindPFlag("database.dsn", matchCmd.Flags().Lookup("dsn"))
}

func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	profilePath := cmd.Flag("profile").Value.String()
	candidate, err := loadProfile(profilePath)
	if err != nil {
		logger.Fatal("loading candidate profile", zap.String("path", profilePath), zap.Error(err))
	}

	dsn := viper.GetString("database.dsn")
	if dsn == "" {
		logger.Fatal("database dsn is required",
			zap.String("hint", "set COMPASS_DATABASE_DSN environment variable or the --dsn flag"),
		)
	}

	repo, err := casebook.OpenPostgres(ctx, dsn)
	if err != nil {
		logger.Fatal("connecting to processed cases database", zap.Error(err))
	}
	defer repo.Close()

	store := casebook.NewStore(repo, 0, logger)
	engine := matching.NewEngine(store, nil, matching.DefaultWeights(), logger)

	topN, _ := cmd.Flags().GetInt("top-n")
	matches, err := engine.FindSimilarCases(ctx, candidate, topN)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	if len(matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no similar cases found"))
		return
	}

	logger.Info("found similar cases", zap.Int("count", len(matches)))
	printMatches(matches)

	if auto, _ := cmd.Flags().GetBool("no-interactive"); auto {
		pretty, _ := json.MarshalIndent(matches, "", "  ")
		fmt.Println(string(pretty))
		return
	}

	for {
		_, action, err := matchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleMatchAction(action, matches, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleMatchAction(action string, matches []casebook.ScoredMatch, logger *zap.Logger) error {
	switch action {
	case PromptShowComponents:
		for _, m := range matches {
			fmt.Printf("case %d: total=%.3f major=%.2f gpa=%.2f tier=%.2f language=%.2f experience=%.2f\n",
				m.CaseID, m.TotalSimilarity,
				m.Components.Major, m.Components.GPA, m.Components.Tier,
				m.Components.Language, m.Components.Experience,
			)
		}
		return nil
	case PromptShowCase:
		return showCase(matches)
	case PromptDumpToFile:
		filename, err := dumpMatches(matches)
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showCase(matches []casebook.ScoredMatch) error {
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		items = append(items, fmt.Sprintf("%d %.3f / %s / %s",
			m.CaseID, m.TotalSimilarity, m.Case.AdmittedUniversity, m.Case.AdmittedProgram,
		))
	}

	selector := promptui.Select{Label: "Select a case", Items: items, Size: 10}
	idx, _, err := selector.Run()
	if err != nil {
		return err
	}

	pretty, _ := json.MarshalIndent(matches[idx].Case, "", "  ")
	fmt.Println(string(pretty))
	return nil
}

func printMatches(matches []casebook.ScoredMatch) {
	for i, m := range matches {
		fmt.Printf("%2d. [%.3f] %s / %s / %s (%s %s, GPA %.2f)\n",
			i+1, m.TotalSimilarity,
			m.Case.AdmittedUniversity, m.Case.AdmittedProgram, m.Case.AdmittedCountry,
			m.Case.UndergradUniversity, string(m.Case.Tier), m.Case.GPA,
		)
	}
}

func loadProfile(path string) (*casebook.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var candidate casebook.CandidateProfile
	if err := json.Unmarshal(data, &candidate); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &candidate, nil
}

func dumpMatches(matches []casebook.ScoredMatch) (string, error) {
	f, err := os.CreateTemp("", app+"-matches-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(matches); err != nil {
		return "", err
	}
	return f.Name(), nil
}
