package config

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ImageHeight != 200 {
		t.Errorf("ImageHeight = %d, want 200", cfg.ImageHeight)
	}
	if !cfg.MergeWithExisting {
		t.Error("MergeWithExisting must default to true")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("IMAGE_HEIGHT", "320")
	t.Setenv("MERGE_WITH_EXISTING", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.ImageHeight != 320 {
		t.Errorf("ImageHeight = %d, want 320", cfg.ImageHeight)
	}
	if cfg.MergeWithExisting {
		t.Error("MergeWithExisting override not applied")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("IMAGE_HEIGHT", "-5")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected validation error for negative image height")
	}
}

func TestLoadConfig_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("IMAGE_HEIGHT", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ImageHeight != 200 {
		t.Errorf("ImageHeight = %d, want fallback 200", cfg.ImageHeight)
	}
}
