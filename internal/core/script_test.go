package core

import (
	"errors"
	"testing"
)

func TestParseButton(t *testing.T) {
	tests := []struct {
		name     string
		expected Button
	}{
		{"a", ButtonA},
		{"A", ButtonA},
		{" start ", ButtonStart},
		{"Right", ButtonRight},
		{"l", ButtonL},
	}

	for _, tc := range tests {
		got, err := ParseButton(tc.name)
		if err != nil {
			t.Errorf("ParseButton(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseButton(%q) = %v, expected %v", tc.name, got, tc.expected)
		}
	}

	if _, err := ParseButton("jump"); !errors.Is(err, ErrBadScript) {
		t.Errorf("ParseButton(\"jump\") error = %v, expected ErrBadScript", err)
	}
}

func TestParseScript(t *testing.T) {
	frames, err := ParseScript("a, -, right*3, a+up")
	if err != nil {
		t.Fatalf("ParseScript() failed: %v", err)
	}
	if len(frames) != 6 {
		t.Fatalf("ParseScript() returned %d frames, expected 6", len(frames))
	}

	if !frames[0].Has(ButtonA) {
		t.Error("frame 0 should hold A")
	}
	if frames[1].Buttons != ButtonNone {
		t.Errorf("frame 1 = %v, expected nothing held", frames[1].Buttons)
	}
	for i := 2; i < 5; i++ {
		if frames[i].Buttons != ButtonRight {
			t.Errorf("frame %d = %v, expected Right", i, frames[i].Buttons)
		}
	}
	if !frames[5].Has(ButtonA) || !frames[5].Has(ButtonUp) {
		t.Errorf("frame 5 = %v, expected A and Up", frames[5].Buttons)
	}
}

func TestParseScriptEmpty(t *testing.T) {
	frames, err := ParseScript("  ")
	if err != nil || len(frames) != 0 {
		t.Errorf("ParseScript(\"  \") = %v, %v, expected no frames", frames, err)
	}
}

func TestParseScriptErrors(t *testing.T) {
	for _, script := range []string{"a,,b", "right*0", "right*x", "a+jump", "up*1000000"} {
		if _, err := ParseScript(script); !errors.Is(err, ErrBadScript) {
			t.Errorf("ParseScript(%q) error = %v, expected ErrBadScript", script, err)
		}
	}
}
