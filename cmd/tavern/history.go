package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tavern/internal/platform/tui"
	"github.com/vovakirdan/tui-tavern/internal/storage"
)

var (
	flagHistoryPlain bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [scene]",
	Short: "Browse captures and past sessions",
	Long: `Show the frames captured with Ctrl+S and the recorded sessions.

Without --plain this opens an interactive browser; Tab switches
between sessions and captures.

Examples:
  tavern history
  tavern history tavern --plain
  tavern history --db ./tavern.db`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print a summary instead of the interactive browser")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Sessions and captures to print with --plain")
}

func runHistory(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryPlain {
		if err := printHistory(store, sceneArg(args), flagHistoryLimit); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	if _, err := tui.RunHistory(store, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHistory(store *storage.Store, sceneID string, limit int) error {
	stats, err := store.GetSceneStats(sceneID)
	if err != nil {
		return err
	}

	fmt.Printf("History - %s\n", sceneID)
	fmt.Println()
	fmt.Printf("  Sessions: %d  Frames: %d  Most lines read: %d\n", stats.Sessions, stats.Frames, stats.MaxEntries)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("  Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	captures, err := store.Captures(sceneID, limit)
	if err != nil {
		return err
	}
	if len(captures) == 0 {
		fmt.Println("No captures yet. Press Ctrl+S while playing to capture a frame.")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %s\n", "ID", "Frame", "Entry", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %s\n", "--", "-----", "-----", "----")
	for _, c := range captures {
		fmt.Printf("  %-4d  %-8d  %-5d  %s\n", c.ID, c.Frame, c.Entry, c.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
