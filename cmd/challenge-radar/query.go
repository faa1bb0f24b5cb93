// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwpark/challenge-radar/internal/classify"
	"github.com/jwpark/challenge-radar/internal/collect"
	"github.com/jwpark/challenge-radar/internal/llm"
	"github.com/jwpark/challenge-radar/internal/parser"
	"github.com/jwpark/challenge-radar/internal/query"
	"github.com/jwpark/challenge-radar/internal/store"
	"github.com/jwpark/challenge-radar/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [request]",
	Short: "Run a natural-language query through the full pipeline",
	Long: `Query parses a free-form request, collects matching short-form videos
from the YouTube Data API, classifies them with a completion backend,
filters and ranks them, and prints a summary. The detailed Markdown
report is printed with --report or written with --save.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	cfg := pipelineConfig(cmd)

	if cfg.Collector.APIKey == "" {
		return fmt.Errorf("no YouTube API key: set --youtube-key, CHALLENGE_RADAR_YOUTUBE_KEY, or .secrets/youtube-api-key")
	}

	ctx := cmd.Context()

	var completer llm.Completer
	if cfg.AI.APIKey != "" {
		c, err := llm.NewCompleter(ctx, cfg.AI, nil)
		if err != nil {
			return err
		}
		completer = c
	} else {
		fmt.Fprintln(os.Stderr, "warning: no completion API key, refinement and classification run in fallback mode")
	}

	p := parser.New(completer, cfg.Parser)
	collector := collect.New(cfg.Collector, nil)
	classifier := classify.New(completer)

	var recorder query.Recorder
	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory {
		st, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		recorder = st
	}

	svc := query.NewService(p, collector, classifier, recorder, cfg.Collector)
	resp := svc.ProcessQuery(ctx, input, os.Stderr)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := query.WriteSaveFile(savePath, resp); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", savePath)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		for _, warn := range resp.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warn)
		}
		fmt.Println(resp.Summary)
		if showReport, _ := cmd.Flags().GetBool("report"); showReport {
			fmt.Println()
			fmt.Println(resp.DetailedReport)
		}
	}

	if !resp.Success {
		return fmt.Errorf("query failed: %s", resp.ErrorMessage)
	}
	return nil
}

// pipelineConfig assembles stage configuration from flags, environment,
// config file, and the secrets directory, in that order of precedence.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	youtubeKey, _ := cmd.Flags().GetString("youtube-key")
	if youtubeKey == "" {
		youtubeKey = viper.GetString("youtube_key")
	}
	provider, _ := cmd.Flags().GetString("provider")
	if provider == "" {
		provider = viper.GetString("provider")
	}
	if provider == "" {
		provider = "anthropic"
	}
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("model")
	}
	if model == "" {
		if provider == "gemini" {
			model = "gemini-2.0-flash"
		} else {
			model = "claude-sonnet-4-5-20250929"
		}
	}

	aiKey := viper.GetString("ai_key")
	switch provider {
	case "gemini":
		aiKey = secretDefault("gemini-api-key", aiKey)
	default:
		aiKey = secretDefault("anthropic-api-key", aiKey)
	}

	region, _ := cmd.Flags().GetString("region")
	if region == "" {
		region = viper.GetString("region")
	}
	if region == "" {
		region = "US"
	}

	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("data_dir")
	}
	if dataDir == "" {
		dataDir = "."
	}

	strictWindows, _ := cmd.Flags().GetBool("strict-windows")

	return types.PipelineConfig{
		Parser: types.ParserConfig{
			MinQuickConfidence: 0.8,
			Version:            "1.0",
		},
		AI: types.AIConfig{
			Provider:   provider,
			Model:      model,
			APIKey:     aiKey,
			MaxRetries: 3,
		},
		Collector: types.CollectorConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "challenge-radar/" + version,
			},
			APIKey:          secretDefault("youtube-api-key", youtubeKey),
			RegionCode:      region,
			MaxPerQuery:     20,
			MaxDailyQuota:   10000,
			WidenPastRanges: !strictWindows,
			BreakerFailures: 5,
			BreakerTimeout:  60 * time.Second,
		},
		Store: types.StoreConfig{
			DataDir:    dataDir,
			MaxHistory: 20,
		},
	}
}

func init() {
	queryCmd.Flags().String("youtube-key", "", "YouTube Data API key")
	queryCmd.Flags().String("provider", "", "completion provider: anthropic or gemini")
	queryCmd.Flags().String("model", "", "completion model identifier")
	queryCmd.Flags().String("region", "", "search region code (default US)")
	queryCmd.Flags().String("data-dir", "", "directory for the history database")
	queryCmd.Flags().String("save", "", "write results to a YAML file")
	queryCmd.Flags().Bool("json", false, "output the full response as JSON")
	queryCmd.Flags().Bool("report", false, "print the detailed Markdown report")
	queryCmd.Flags().Bool("no-history", false, "do not record this query in the history database")
	queryCmd.Flags().Bool("strict-windows", false, "use strict prior-period windows for \"last week\"/\"last month\"")

	rootCmd.AddCommand(queryCmd)
}
