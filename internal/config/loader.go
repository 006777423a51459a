package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrUnknownScene is returned when no file or built-in scene has the id.
var ErrUnknownScene = errors.New("config: unknown scene")

// LoadScene loads a scene configuration.
// Search order: customPath -> ~/.tavern/scenes/<id>.yaml -> ./scenes/<id>.yaml -> embedded default
func LoadScene(id, customPath string) (Scene, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := readScene(customPath)
		if err != nil {
			return cfg, err
		}
		return finish(cfg, id)
	}

	filename := id + ".yaml"

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if cfg, err := readScene(userCfgPath); err == nil {
			return finish(cfg, id)
		}
	}

	// Try local scenes directory
	if cfg, err := readScene(filepath.Join("scenes", filename)); err == nil {
		return finish(cfg, id)
	}

	// Use embedded default YAML
	data, ok := embeddedScenes[id]
	if !ok {
		return Scene{}, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	var cfg Scene
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if id == "tavern" {
			return DefaultScene(), nil // Fallback to hardcoded if embed fails
		}
		return cfg, fmt.Errorf("config: parse embedded scene %s: %w", id, err)
	}
	return finish(cfg, id)
}

// ParseScene decodes a scene from YAML and validates it.
func ParseScene(data []byte) (Scene, error) {
	var cfg Scene
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse scene: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readScene(path string) (Scene, error) {
	var cfg Scene
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read scene %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse scene %s: %w", path, err)
	}
	return cfg, nil
}

// finish fills the id from the lookup key when the file omits it, then validates.
func finish(cfg Scene, id string) (Scene, error) {
	if cfg.ID == "" {
		cfg.ID = id
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user scene file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tavern", "scenes", filename)
}
