package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tavern/internal/platform/tui"
	"github.com/vovakirdan/tui-tavern/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start tavern with a scene picker menu",
	Long: `Start tavern in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a scene.
After leaving a scene, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select scene
  Tab          - Captures and session history
  Q            - Quit

Examples:
  tavern menu
  tavern menu --fps 30
  tavern menu --db ./tavern.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := mustLogger()
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		store = nil
	}

	// Menu loop
	for {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}

		result, err := tui.RunMenu(width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		if result.Quit {
			break
		}

		if result.WantsHistory {
			if store == nil {
				fmt.Fprintln(os.Stderr, "History needs a database.")
				continue
			}
			goBack, hErr := tui.RunHistory(store, width, height)
			if hErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", hErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from history
		}

		scene, err := loadScene(result.SceneID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		if err := tui.Run(tui.SessionConfig{
			Scene:    scene,
			TickRate: flagFPS,
			User:     currentUser(),
			Logger:   logger,
		}, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scene: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
