package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Recall/internal/config"
	"github.com/LISSConsulting/LISSTech.Recall/internal/deck"
	"github.com/LISSConsulting/LISSTech.Recall/internal/recall"
	"github.com/LISSConsulting/LISSTech.Recall/internal/tui/panels"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the recall game (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executePlay(configFlag(cmd))
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <image>...",
		Short: "Store images in the deck under their file names",
		Long: "Store images in the deck under their file names. Names with a numeric\n" +
			"prefix (1.png, 2.jpg, 10.gif) are played in numeric order.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeAdd(configFlag(cmd), cmd.OutOrStdout(), args)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored images in play order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeList(configFlag(cmd), cmd.OutOrStdout())
		},
	}
}

func clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored image",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			return executeClear(configFlag(cmd), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "confirm removal of all images")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals from completed passes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeStats(configFlag(cmd), cmd.OutOrStdout())
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create recall.toml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			path, err := config.InitFile(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}

// formatImageList renders the ordered deck as a numbered table.
func formatImageList(records []deck.ImageRecord) string {
	if len(records) == 0 {
		return "No images stored. Add some with 'recall add <image>...'\n"
	}
	var b strings.Builder
	b.WriteString("Images\n")
	b.WriteString("──────\n")
	for i, r := range records {
		size, mediaType := len(r.Data), "?"
		if data, mt, err := deck.DecodeDataURI(r.Data); err == nil {
			size, mediaType = len(data), mt
		}
		fmt.Fprintf(&b, "  %3d  %-30s  %-10s  %s\n", i+1, r.Name, mediaType, panels.FormatSize(size))
	}
	fmt.Fprintf(&b, "\n%d image(s)\n", len(records))
	return b.String()
}

// formatAddResults renders one line per ingested file.
func formatAddResults(results []deck.IngestResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "  ✗ %s: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(&b, "  ✓ %s\n", r.Name)
	}
	return b.String()
}

// formatStats renders history totals using the configured labels.
func formatStats(h recall.History, rememberedLabel, forgotLabel string) string {
	if len(h.Passes) == 0 {
		return "No completed passes yet. Run 'recall' to play.\n"
	}
	remembered, forgotten := h.Totals()
	var b strings.Builder
	b.WriteString("Recall Stats\n")
	b.WriteString("────────────\n")
	fmt.Fprintf(&b, "  %-20s %d\n", "passes:", len(h.Passes))
	fmt.Fprintf(&b, "  %-20s %d\n", rememberedLabel+":", remembered)
	fmt.Fprintf(&b, "  %-20s %d\n", forgotLabel+":", forgotten)
	if total := remembered + forgotten; total > 0 {
		fmt.Fprintf(&b, "  %-20s %.0f%%\n", "recall rate:", float64(remembered)*100/float64(total))
	}
	if last, ok := h.Last(); ok {
		fmt.Fprintf(&b, "  %-20s %d/%d %s (%s)\n", "last pass:", last.Remembered, last.Total, rememberedLabel,
			last.FinishedAt.Local().Format("2006-01-02 15:04"))
	}
	return b.String()
}
