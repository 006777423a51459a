package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/platform/tui"
	"github.com/vovakirdan/tui-tavern/internal/registry"
	"github.com/vovakirdan/tui-tavern/internal/storage"
)

var flagHoldFrames int

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Play a scene",
	Long: `Start the specified scene (default: tavern).

Controls:
  Arrows/WASD    - Walk
  Enter/Space/Z  - Talk (next line of dialogue)
  Ctrl+S         - Capture the current frame
  ?              - Toggle help
  Q/Esc          - Leave
  Ctrl+C         - Quit

Examples:
  tavern play
  tavern play tavern --fps 30
  tavern play --scene-config ./my-tavern.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagHoldFrames, "hold", tui.DefaultHoldFrames, "Frames a key press stays held")
}

// sceneArg returns the scene named on the command line, or the default one.
func sceneArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultScene
}

// loadScene resolves a scene id through the registry and reports
// unknown ones the way every command does.
func loadScene(id string) (config.Scene, error) {
	if !registry.Exists(id) {
		return config.Scene{}, fmt.Errorf("unknown scene %q (run 'tavern list' to see available scenes)", id)
	}
	return registry.Create(id, flagSceneConfig)
}

// currentUser names the local player in session records.
func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "local"
}

// checkTerminal verifies the terminal can show a whole frame plus the help line.
func checkTerminal(scene config.Scene) error {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return nil // Not a terminal; let Bubble Tea decide
	}
	needW, needH := scene.Runtime(flagFPS).ScreenSize()
	if w < needW || h < needH+1 {
		return fmt.Errorf("terminal is %dx%d, need at least %dx%d", w, h, needW, needH+1)
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) {
	scene, err := loadScene(sceneArg(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := checkTerminal(scene); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := mustLogger()

	// Open capture storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - the scene still works
		store = nil
	}

	runErr := tui.Run(tui.SessionConfig{
		Scene:      scene,
		TickRate:   flagFPS,
		HoldFrames: flagHoldFrames,
		User:       currentUser(),
		Logger:     logger,
	}, store)

	// Close before potential exit
	if store != nil {
		store.Close()
	}
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running scene: %v\n", runErr)
		os.Exit(1)
	}
}
