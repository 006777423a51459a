// tavern plays a small dialogue scene in the terminal: a player sprite in
// a tavern, an NPC and a speech bubble that advances one entry per press.
//
// Usage:
//
//	tavern list                 - List available scenes
//	tavern play [scene]         - Play a scene (default: tavern)
//	tavern menu                 - Pick scenes interactively
//	tavern run [scene]          - Run a scene headless from an input script
//	tavern wrap <text>          - Print text wrapped the way dialogue is
//	tavern serve                - Start SSH server for remote play
//	tavern history              - Browse captures and past sessions
//
// Global flags:
//
//	--fps <rate>            - Set frame rate (default: 60)
//	--db <path>             - Set database path (default: ~/.tavern/tavern.db)
//	--scene-config <path>   - Load the scene from a custom YAML file
//	--log-file <path>       - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultScene = "tavern"

var (
	// Global flags
	flagFPS         int
	flagDBPath      string
	flagSceneConfig string
	flagLogFile     string
	flagDebug       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tavern",
	Short: "TUI Tavern - a frame-synchronised dialogue scene in your terminal",
	Long: `TUI Tavern draws a handheld-sized scene (30x20 tiles) in your terminal
and runs it at a fixed frame rate. Walk around, talk to the innkeeper and
read the dialogue one bubble at a time.

Available commands:
  list     - Show all available scenes
  play     - Play a scene directly
  menu     - Interactive scene picker menu
  run      - Run a scene headless and print the final frame
  wrap     - Wrap text the way the dialogue box does
  serve    - Start SSH server for remote play
  history  - Browse captures and past sessions

Examples:
  tavern list
  tavern play
  tavern run --frames 120 --keys "a,-,a"
  tavern wrap --width 20 "Hello traveller, what brings you here?"
  tavern serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tavern/tavern.db", "Path to the captures database")
	rootCmd.PersistentFlags().StringVar(&flagSceneConfig, "scene-config", "", "Path to a custom scene YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(wrapCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}
