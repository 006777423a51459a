package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadScript is returned for input scripts that cannot be parsed.
var ErrBadScript = errors.New("core: bad input script")

// maxRepeat bounds a single "*N" repeat.
const maxRepeat = 100000

// ParseButton returns the button with the given name, case-insensitively.
func ParseButton(name string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a":
		return ButtonA, nil
	case "b":
		return ButtonB, nil
	case "select":
		return ButtonSelect, nil
	case "start":
		return ButtonStart, nil
	case "right":
		return ButtonRight, nil
	case "left":
		return ButtonLeft, nil
	case "up":
		return ButtonUp, nil
	case "down":
		return ButtonDown, nil
	case "r":
		return ButtonR, nil
	case "l":
		return ButtonL, nil
	}
	return ButtonNone, fmt.Errorf("%w: unknown button %q", ErrBadScript, name)
}

// ParseScript turns a comma separated input script into frames.
//
// Each step is one frame: "a" holds A, "a+right" holds both, "-" holds
// nothing. A "*N" suffix repeats the step N times, so "right*30" walks
// right for thirty frames. Holding the same button on consecutive steps
// is one press; separate them with "-" to press again.
func ParseScript(script string) ([]InputFrame, error) {
	var frames []InputFrame
	if strings.TrimSpace(script) == "" {
		return frames, nil
	}

	for _, step := range strings.Split(script, ",") {
		step = strings.TrimSpace(step)

		count := 1
		if body, rep, ok := strings.Cut(step, "*"); ok {
			n, err := strconv.Atoi(strings.TrimSpace(rep))
			if err != nil || n < 1 || n > maxRepeat {
				return nil, fmt.Errorf("%w: bad repeat in %q", ErrBadScript, step)
			}
			step, count = strings.TrimSpace(body), n
		}

		var f InputFrame
		if step != "-" {
			for _, name := range strings.Split(step, "+") {
				b, err := ParseButton(name)
				if err != nil {
					return nil, err
				}
				f.Set(b)
			}
		}

		for range count {
			frames = append(frames, f)
		}
	}
	return frames, nil
}
