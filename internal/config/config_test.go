package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Pixelation != "auto" {
		t.Errorf("Pixelation default = %q, want auto", cfg.Pixelation)
	}
	if cfg.TitleTemplate != "%b" {
		t.Errorf("TitleTemplate default = %q, want %%b", cfg.TitleTemplate)
	}
	if cfg.WidthStretch != 1.0 {
		t.Errorf("WidthStretch default = %v, want 1.0", cfg.WidthStretch)
	}
	if cfg.Antialias == nil || !*cfg.Antialias {
		t.Error("Antialias should default to true")
	}
	if cfg.Video == nil || !*cfg.Video {
		t.Error("Video should default to true")
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	off := false
	cfg := &Config{
		Pixelation:    "sixel",
		TitleTemplate: "%f (%wx%h)",
		WidthStretch:  0.5,
		Antialias:     &off,
		Video:         &off,
	}
	cfg.applyDefaults()

	if cfg.Pixelation != "sixel" {
		t.Error("explicit pixelation overwritten")
	}
	if cfg.TitleTemplate != "%f (%wx%h)" {
		t.Error("explicit title template overwritten")
	}
	if cfg.WidthStretch != 0.5 {
		t.Error("explicit stretch overwritten")
	}
	if *cfg.Antialias || *cfg.Video {
		t.Error("explicit false values overwritten")
	}
}

func TestConfigPathsOrder(t *testing.T) {
	paths := configPaths()
	if len(paths) != 2 {
		t.Fatalf("expected 2 config paths, got %d", len(paths))
	}
	if paths[1] != "config.toml" {
		t.Errorf("local override should come last, got %q", paths[1])
	}
}
