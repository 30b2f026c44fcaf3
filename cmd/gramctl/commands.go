package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/grammate-io/grammate-api/internal/ingest"
)

func newSubmitCmd(api func() *apiClient) *cobra.Command {
	var (
		file   string
		format string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Parse a batch file and start a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open batch file: %w", err)
			}
			defer f.Close()

			inputFormat := ingest.DetectFormat(file)
			if format != "" {
				inputFormat, err = ingest.ParseFormat(format)
				if err != nil {
					return err
				}
			}

			items, err := ingest.Parse(f, inputFormat)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("%s contains no items", file)
			}

			batch, err := api().startBatch(items)
			if err != nil {
				return err
			}
			fmt.Printf("batch %s started: %d items\n", batch.BatchID, batch.Total)

			if !watch {
				return nil
			}
			return watchProgress(api())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "batch file (newline text, csv, or json array)")
	cmd.Flags().StringVar(&format, "format", "", "input format: text, csv, or json (default: by extension)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "poll progress until the run ends")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newStatusCmd(api func() *apiClient) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current batch progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := api().getBatch()
			if err != nil {
				return err
			}
			printBatch(batch)

			if !stats {
				return nil
			}
			counts, err := api().getStats()
			if err != nil {
				return err
			}
			printCounts("error code", counts.ByErrorCode)
			printCounts("macro code", counts.ByMacroCode)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "also print aggregate annotation counts")
	return cmd
}

func newControlCmd(api func() *apiClient, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := api().control(action)
			if err != nil {
				return err
			}
			printBatch(batch)
			return nil
		},
	}
}

func watchProgress(api *apiClient) error {
	for {
		batch, err := api.getBatch()
		if err != nil {
			return err
		}
		printBatch(batch)
		if batch.Status == "stopped" || batch.Status == "completed" {
			return nil
		}
		time.Sleep(2 * time.Second)
	}
}

func printBatch(b *batchState) {
	fmt.Printf("%-10s %d/%d  success=%d  failed=%d\n",
		b.Status, b.Current, b.Total, b.SuccessCount, b.FailureCount)
}

func printCounts(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})

	fmt.Printf("\nby %s:\n", label)
	for _, code := range codes {
		fmt.Printf("  %-12s %d\n", code, counts[code])
	}
}
