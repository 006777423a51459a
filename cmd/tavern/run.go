package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/display"
	"github.com/vovakirdan/tui-tavern/internal/frame"
	"github.com/vovakirdan/tui-tavern/internal/loop"
	"github.com/vovakirdan/tui-tavern/internal/platform/tui"
)

var (
	flagRunFrames   int
	flagRunKeys     string
	flagRunRealtime bool
	flagRunColor    bool
)

var runCmd = &cobra.Command{
	Use:   "run [scene]",
	Short: "Run a scene headless and print the final frame",
	Long: `Run a scene without a terminal UI, feeding it a scripted input, and
print the last composed frame.

The input script is a comma separated list of frames:
  a            - hold A for one frame (advances the dialogue)
  right*30     - hold Right for thirty frames
  a+up         - hold A and Up together
  -            - hold nothing

Frames past the end of the script hold nothing.

Examples:
  tavern run --frames 3 --keys "-,a"
  tavern run --frames 90 --keys "right*60,a" --realtime
  tavern run --keys "a,-,a,-,a" --color`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagRunFrames, "frames", 0, "Frames to run (default: script length + 2)")
	runCmd.Flags().StringVar(&flagRunKeys, "keys", "", "Input script")
	runCmd.Flags().BoolVar(&flagRunRealtime, "realtime", false, "Pace frames at --fps instead of running flat out")
	runCmd.Flags().BoolVar(&flagRunColor, "color", false, "Print the frame with palette colours")
}

// headlessOptions configures one headless run.
type headlessOptions struct {
	Frames   int
	Script   []core.InputFrame
	Clock    frame.Clock
	TickRate int
	Logger   *log.Logger
}

// headless runs scene for opts.Frames frames and returns the last frame
// presented and the state the loop ended in.
func headless(ctx context.Context, scene config.Scene, opts headlessOptions) (display.Frame, loop.LoopState, error) {
	var last display.Frame
	ctrl, err := loop.New(scene, loop.Options{
		Clock:    opts.Clock,
		Keys:     core.NewScriptSource(opts.Script),
		TickRate: opts.TickRate,
		Logger:   opts.Logger,
		Publish:  func(f display.Frame) { last = f },
	})
	if err != nil {
		return display.Frame{}, loop.LoopState{}, err
	}

	// Inputs are polled after each frame and acted on in the next, so two
	// trailing frames let the last scripted press reach the screen.
	frames := opts.Frames
	if frames <= 0 {
		frames = len(opts.Script) + 2
	}

	for range frames {
		if err := ctrl.Tick(ctx); err != nil {
			return last, ctrl.State(), err
		}
	}
	return last, ctrl.State(), nil
}

func runRun(_ *cobra.Command, args []string) {
	scene, err := loadScene(sceneArg(args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	script, err := core.ParseScript(flagRunKeys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := mustLogger()
	defer closeLog()

	var clock frame.Clock = &frame.Immediate{}
	if flagRunRealtime {
		ticker := frame.NewTicker(flagFPS)
		defer ticker.Stop()
		clock = ticker
	}

	last, state, err := headless(context.Background(), scene, headlessOptions{
		Frames:   flagRunFrames,
		Script:   script,
		Clock:    clock,
		TickRate: flagFPS,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running scene: %v\n", err)
		os.Exit(1)
	}

	printFrame(os.Stdout, last, state)
}

func printFrame(w io.Writer, f display.Frame, state loop.LoopState) {
	if f.Screen == nil {
		return
	}
	if flagRunColor {
		fmt.Fprintln(w, tui.NewRenderer(f.Palette).Render(f.Screen))
	} else {
		fmt.Fprintln(w, f.Screen.String())
	}
	fmt.Fprintf(w, "frame %d  player (%d,%d)  dialogue %d\n", f.Number, state.X, state.Y, state.Cursor.Entry)
}
