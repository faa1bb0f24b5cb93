// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwpark/challenge-radar/internal/store"
	"github.com/jwpark/challenge-radar/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past queries and trending keywords",
	Long: `History lists recently processed queries from the local database.
With --keywords it lists the most used search keywords instead. Use
--cleanup to delete entries older than the given number of days.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = "."
	}

	st, err := store.NewStore(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	if cleanupDays, _ := cmd.Flags().GetInt("cleanup"); cleanupDays > 0 {
		removed, err := st.Cleanup(ctx, time.Duration(cleanupDays)*24*time.Hour)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d queries older than %d days.\n", removed, cleanupDays)
		return nil
	}

	if keywords, _ := cmd.Flags().GetBool("keywords"); keywords {
		trends, err := st.TrendingKeywords(ctx, limit)
		if err != nil {
			return err
		}
		if len(trends) == 0 {
			fmt.Println("No keywords recorded.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-6s  %s\n", "Keyword", "Uses", "Last seen")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
		for _, t := range trends {
			fmt.Fprintf(os.Stdout, "%-30s  %-6d  %s\n", t.Keyword, t.Uses, t.LastSeen.Local().Format("2006-01-02 15:04"))
		}
		return nil
	}

	entries, err := st.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No queries recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-19s  %-40s  %-9s  %-18s  %-5s  %-4s  %s\n",
		"When", "Input", "Action", "Content", "Found", "OK", "Time")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, e := range entries {
		input := e.Input
		if len(input) > 40 {
			input = input[:37] + "..."
		}
		ok := "no"
		if e.Success {
			ok = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-19s  %-40s  %-9s  %-18s  %-5d  %-4s  %.2fs\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), input, e.Action, e.ContentType,
			e.TotalFound, ok, e.ProcessingTime)
	}
	fmt.Fprintf(os.Stdout, "\n%d queries\n", len(entries))
	return nil
}

func init() {
	historyCmd.Flags().String("data-dir", "", "directory holding the history database")
	historyCmd.Flags().Int("limit", 0, "maximum entries to list (0 = default)")
	historyCmd.Flags().Bool("keywords", false, "list trending keywords instead of queries")
	historyCmd.Flags().Int("cleanup", 0, "delete queries older than this many days")

	rootCmd.AddCommand(historyCmd)
}
