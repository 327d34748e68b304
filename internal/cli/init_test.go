package cli

import (
	"bytes"
	"strings"
	"testing"

	"kontor/internal/config"
)

func TestSetupLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=app") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&buf, "info")

	t.Setenv("API_BASE_URL", "ftp://nope")
	if _, err := LoadAndValidateConfig(logger); err == nil {
		t.Fatal("expected validation error")
	}

	t.Setenv("API_BASE_URL", "https://finance.example.com")
	cfg, err := LoadAndValidateConfig(logger)
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() error = %v", err)
	}
	if cfg.APIBaseURL != "https://finance.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}

	cfg, err = LoadAndValidateConfig(nil, func(c *config.Config) { c.LogLevel = "debug" })
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("override not applied: LogLevel = %q", cfg.LogLevel)
	}

	_, err = LoadAndValidateConfig(nil, func(c *config.Config) { c.APIBaseURL = "" })
	if err == nil {
		t.Error("override not validated")
	}
}
