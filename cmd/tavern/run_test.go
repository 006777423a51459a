package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tavern/internal/config"
	"github.com/vovakirdan/tui-tavern/internal/core"
	"github.com/vovakirdan/tui-tavern/internal/frame"
)

func TestHeadlessAdvancesDialogue(t *testing.T) {
	script, err := core.ParseScript("-,a")
	if err != nil {
		t.Fatalf("ParseScript() failed: %v", err)
	}

	clock := &frame.Immediate{}
	last, state, err := headless(context.Background(), config.DefaultScene(), headlessOptions{
		Script: script,
		Clock:  clock,
	})
	if err != nil {
		t.Fatalf("headless() failed: %v", err)
	}

	if clock.Waits() != 4 {
		t.Errorf("Waits() = %d, expected 4", clock.Waits())
	}
	if last.Number != 4 {
		t.Errorf("last.Number = %d, expected 4", last.Number)
	}
	if state.Cursor.Entry != 1 {
		t.Errorf("Entry = %d, expected 1", state.Cursor.Entry)
	}
	if row := last.Screen.Row(1); !strings.Contains(row, "To be fair,") {
		t.Errorf("Row(1) = %q, expected the first dialogue line", row)
	}
}

func TestHeadlessWalks(t *testing.T) {
	script, _ := core.ParseScript("right*10")
	scene := config.DefaultScene()

	_, state, err := headless(context.Background(), scene, headlessOptions{
		Frames: 12,
		Script: script,
		Clock:  &frame.Immediate{},
	})
	if err != nil {
		t.Fatalf("headless() failed: %v", err)
	}
	if state.X <= scene.Player.X {
		t.Errorf("X = %d, expected the player to move right of %d", state.X, scene.Player.X)
	}
	if state.Y != scene.Player.Y {
		t.Errorf("Y = %d, expected %d", state.Y, scene.Player.Y)
	}
}

func TestHeadlessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, state, err := headless(ctx, config.DefaultScene(), headlessOptions{
		Frames: 5,
		Clock:  &frame.Immediate{},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("headless() error = %v, expected context.Canceled", err)
	}
	if state.Frame != 0 {
		t.Errorf("Frame = %d, expected 0", state.Frame)
	}
}

func TestWrapLines(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		width    int
		expected []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"breaks", "hello big world", 9, []string{"hello big", "world"}},
		{"escaped newline separates words", `one\ntwo`, 20, []string{"one two"}},
		{"newline does not break the line", `To be fair,\n you have to`, 20, []string{"To be fair, you have", "to"}},
		{"empty", "", 20, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := wrapLines(tc.in, tc.width, "\n")
			if strings.Join(got, "|") != strings.Join(tc.expected, "|") || len(got) != len(tc.expected) {
				t.Errorf("wrapLines(%q, %d) = %q, expected %q", tc.in, tc.width, got, tc.expected)
			}
		})
	}
}

func TestWrapLinesCustomMarker(t *testing.T) {
	// The escaped newline becomes the marker and restarts the count
	got := wrapLines(`aaaa bbbb\n cccc`, 10, "|")
	expected := []string{"aaaa bbbb| cccc"}
	if strings.Join(got, "|") != strings.Join(expected, "|") || len(got) != 1 {
		t.Errorf("wrapLines() = %q, expected %q", got, expected)
	}
}

func TestCheckWidth(t *testing.T) {
	for _, w := range []int{0, -3} {
		if err := checkWidth(w); !errors.Is(err, errBadWidth) {
			t.Errorf("checkWidth(%d) = %v, expected errBadWidth", w, err)
		}
	}
	if err := checkWidth(1); err != nil {
		t.Errorf("checkWidth(1) = %v, expected nil", err)
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"localhost:2222": "2222",
		"bogus":          "bogus",
	}
	for in, expected := range tests {
		if got := portOf(in); got != expected {
			t.Errorf("portOf(%q) = %q, expected %q", in, got, expected)
		}
	}
}
