package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tavern/internal/text"
)

var (
	flagWrapWidth  int
	flagWrapRuler  bool
	flagWrapMarker string
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <text>...",
	Short: "Wrap text the way the dialogue box does",
	Long: `Lay text out with the greedy word wrap used for dialogue and print one
line per row. Arguments are joined with spaces. The two characters \n in
the text stand for the marker, as in the scene files: a word carrying it
restarts the line count, so the words after it fill the line from zero.

Examples:
  tavern wrap "To be fair,\nyou have to have a very high IQ"
  tavern wrap --width 12 --ruler "a rather long sentence"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runWrap,
}

func init() {
	wrapCmd.Flags().IntVar(&flagWrapWidth, "width", 20, "Maximum characters per line")
	wrapCmd.Flags().BoolVar(&flagWrapRuler, "ruler", false, "Frame the output with a width ruler")
	wrapCmd.Flags().StringVar(&flagWrapMarker, "marker", text.DefaultMarker, "Forced-break marker")
}

// wrapLines returns the wrapped rows of s, with a literal \n in s turned
// into the marker.
func wrapLines(s string, width int, marker string) []string {
	s = strings.ReplaceAll(s, `\n`, marker)
	lines := text.Layout{Width: width, Marker: marker}.Wrap(s)

	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, strings.TrimSuffix(l.String(), " "))
	}
	return rows
}

var errBadWidth = errors.New("--width must be at least 1")

// checkWidth rejects budgets no line can be laid out in.
func checkWidth(width int) error {
	if width < 1 {
		return fmt.Errorf("%w, got %d", errBadWidth, width)
	}
	return nil
}

func runWrap(_ *cobra.Command, args []string) {
	if err := checkWidth(flagWrapWidth); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rows := wrapLines(strings.Join(args, " "), flagWrapWidth, flagWrapMarker)

	if !flagWrapRuler {
		for _, r := range rows {
			fmt.Println(r)
		}
		return
	}

	edge := "+" + strings.Repeat("-", flagWrapWidth) + "+"
	fmt.Println(edge)
	for _, r := range rows {
		fmt.Printf("|%-*s|\n", flagWrapWidth, r)
	}
	fmt.Println(edge)
}
