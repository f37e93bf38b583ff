// Package config loads viewer defaults from a TOML file. Command line
// flags override everything here.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Pixelation selects the rendering mode: "auto", "kitty", "sixel",
	// "half" or "quarter".
	Pixelation string `koanf:"pixelation"`

	Upscale        bool  `koanf:"upscale"`
	UpscaleInteger bool  `koanf:"upscale_integer"`
	Center         bool  `koanf:"center"`
	Antialias      *bool `koanf:"antialias"` // default true

	Title         bool   `koanf:"title"`
	TitleTemplate string `koanf:"title_template"`

	// WidthStretch corrects for non-square terminal cells in the block
	// modes; 1.0 means square.
	WidthStretch float64 `koanf:"width_stretch"`

	// Background flattens transparency onto a "#rrggbb" color.
	Background string `koanf:"background"`

	// Video enables probing files as video when image decoding fails.
	Video *bool `koanf:"video"` // default true
}

// Load reads config files in priority order (XDG config dir first, then
// ./config.toml for project-local overrides, last one wins) and applies
// defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func configPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "tiv", "config.toml"),
		"config.toml",
	}
}

func (c *Config) applyDefaults() {
	if c.Pixelation == "" {
		c.Pixelation = "auto"
	}
	if c.TitleTemplate == "" {
		c.TitleTemplate = "%b"
	}
	if c.WidthStretch <= 0 {
		c.WidthStretch = 1.0
	}
	if c.Antialias == nil {
		v := true
		c.Antialias = &v
	}
	if c.Video == nil {
		v := true
		c.Video = &v
	}
}
