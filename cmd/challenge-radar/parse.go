// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/jwpark/challenge-radar/internal/llm"
	"github.com/jwpark/challenge-radar/internal/parser"
	"github.com/jwpark/challenge-radar/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [request]",
	Short: "Interpret a request without running the pipeline",
	Long: `Parse runs the request parser alone and prints the structured
interpretation. Useful for checking what a query would search for
before spending API quota. With --no-refine the completion backend is
skipped even when a key is configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	cfg := pipelineConfig(cmd)

	var completer llm.Completer
	noRefine, _ := cmd.Flags().GetBool("no-refine")
	if !noRefine && cfg.AI.APIKey != "" {
		c, err := llm.NewCompleter(cmd.Context(), cfg.AI, nil)
		if err != nil {
			return err
		}
		completer = c
	}

	p := parser.New(completer, cfg.Parser)
	result := p.Parse(cmd.Context(), input)

	for _, warn := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warn)
	}

	return formatParseOutput(result.Request, cmd)
}

func formatParseOutput(req types.ParsedUserRequest, cmd *cobra.Command) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(req)
	}
	data, err := yaml.Marshal(req)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func init() {
	parseCmd.Flags().String("provider", "", "completion provider: anthropic or gemini")
	parseCmd.Flags().String("model", "", "completion model identifier")
	parseCmd.Flags().Bool("no-refine", false, "skip the refinement pass")
	parseCmd.Flags().Bool("json", false, "output as JSON instead of YAML")

	rootCmd.AddCommand(parseCmd)
}
