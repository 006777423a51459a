package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-tavern/internal/core"
)

//go:embed defaults/tavern.yaml
var defaultTavernYAML []byte

// embeddedScenes maps scene ids to their built-in YAML.
var embeddedScenes = map[string][]byte{
	"tavern": defaultTavernYAML,
}

// DefaultScene returns the built-in tavern scene.
func DefaultScene() Scene {
	return Scene{
		ID:          "tavern",
		Name:        "Tavern",
		Description: "Talk shop at the tavern table",
		Display: DisplayConfig{
			Width:    core.DisplayWidth,
			Height:   core.DisplayHeight,
			TileSize: core.TileSize,
		},
		Player: PlayerConfig{
			Tag:    "Player",
			X:      50,
			Y:      50,
			Width:  16,
			Height: 16,
			Speed:  1,
		},
		Background: BackgroundConfig{
			MapSize: 32,
			Fill:    2,
			Palette: core.Palette{
				0x0000, 0x0A2A, 0xFFFF, 0x0000, 0xf0f0, 0x0f0f, 0xaaaa, 0x5555,
				0x6666, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
			},
		},
		Objects: ObjectConfig{
			Slots: 128,
			Palette: core.Palette{
				0x0000, 0x0000, 0x7FFF, 0x1994, 0x0CEC, 0x3ADC, 0x6946, 0x22C8, 0x4210,
			},
		},
		Text: TextConfig{
			X:          1,
			Y:          1,
			FG:         1,
			BG:         2,
			MaxChars:   20,
			TotalLines: 4,
			Marker:     "\n",
		},
		Dialogue: []string{
			"To be fair,\n you have to have a very high\n IQ to understand Rick and Morty.\n",
			"The humour is extremely subtle,\n and without a solid grasp",
			"of theoretical physics most of the jokes will go over a",
			"typical viewer's head.\n",
			"There's also Rick's nihilistic outlook,\n which is deftly",
			"woven into his characterisation-\n his personal philosophy",
			"draws heavily from Narodnaya Volya literature,\n for instance.",
			"The fans understand this stuff;\n they have the intellectual",
			"capacity to truly appreciate the depths of these jokes,",
			"to realise that they're not just funny- they say something",
			"deep about LIFE.\n",
		},
		Sprites: []Placement{
			{Tag: "Boden", X: 192, Y: 109},
			{Tag: "wood I think", X: 188, Y: 45},
			{Tag: "wood I think", X: 124, Y: 64, HFlip: true},
			{Tag: "wood I think", X: 60, Y: 64},
			{Tag: "wood I think", X: 188, Y: 0},
			{Tag: "wood I think", X: 0, Y: 64},
			{Tag: "wood I think", X: 0, Y: 0, Hidden: true},
			{Tag: "Table Corner", X: 0, Y: 96, HFlip: true},
			{Tag: "Table Top", X: 64, Y: 96},
			{Tag: "Table Corner", X: 128, Y: 96},
			{Tag: "Text", X: 128, Y: 0, HFlip: true},
			{Tag: "Text Mid", X: 64, Y: 0},
			{Tag: "Text", X: 0, Y: 0},
			{Tag: "npc player", X: 128, Y: 32},
		},
	}
}

// EmbeddedScenes returns the ids of the built-in scenes.
func EmbeddedScenes() []string {
	ids := make([]string, 0, len(embeddedScenes))
	for id := range embeddedScenes {
		ids = append(ids, id)
	}
	return ids
}
