package shutterscene

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the render settings that are not exposed as flags.
// Every field is optional; zero values fall back to the defaults in const.go.
type Config struct {
	ResolutionX   int    `json:"resolutionX"`
	ResolutionY   int    `json:"resolutionY"`
	FrameRate     int    `json:"frameRate"`
	StepRate      int    `json:"stepRate"`
	Spp           int    `json:"spp"`
	Supersample   int    `json:"supersample,omitempty"`
	Gamma         Real   `json:"gamma,omitempty"`
	GIFDelay      int    `json:"gifDelay,omitempty"`
	Ambient       Real   `json:"ambient,omitempty"`
	Background    string `json:"background,omitempty"`
	Interpolation string `json:"interpolation,omitempty"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.ResolutionX <= 0 {
		cfg.ResolutionX = ResolutionX
	}
	if cfg.ResolutionY <= 0 {
		cfg.ResolutionY = ResolutionY
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = FrameRate
	}
	if cfg.StepRate <= 0 {
		cfg.StepRate = StepRate
	}
	if cfg.Spp <= 0 {
		cfg.Spp = Spp
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = Supersample
	}
	if cfg.Gamma < 0 {
		cfg.Gamma = Gamma
	}
	if cfg.GIFDelay <= 0 {
		cfg.GIFDelay = GIFDelay
	}
	if cfg.Ambient <= 0 {
		cfg.Ambient = 0.05
	}
	if cfg.Background == "" {
		cfg.Background = "black"
	}
	if cfg.Interpolation == "" {
		cfg.Interpolation = string(InterpolationLinear)
	}
}

// loadConfig reads an optional JSON config; an empty path yields the defaults.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if _, err := ParseInterpolation(cfg.Interpolation); err != nil {
		return nil, err
	}
	if _, err := GetColor(cfg.Background); err != nil {
		return nil, err
	}
	DebugLog("Loaded config from %s: resolution=(%d, %d), frameRate=%d, stepRate=%d, spp=%d, supersample=%d", path, cfg.ResolutionX, cfg.ResolutionY, cfg.FrameRate, cfg.StepRate, cfg.Spp, cfg.Supersample)
	return &cfg, nil
}
