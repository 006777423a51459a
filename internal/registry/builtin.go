package registry

import "github.com/vovakirdan/tui-tavern/internal/config"

func init() {
	for _, id := range config.EmbeddedScenes() {
		Register(id, func(customPath string) (config.Scene, error) {
			return config.LoadScene(id, customPath)
		})
	}
}
