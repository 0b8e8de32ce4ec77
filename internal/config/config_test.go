package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("environment = %q, want development", cfg.Environment)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("http port = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.TracingEnabled {
		t.Fatal("tracing enabled by default, want disabled")
	}
}

func TestLoadReadsEnvKeys(t *testing.T) {
	t.Setenv("VIDAR_ENV", "production")
	t.Setenv("VIDAR_HTTP_PORT", "9090")
	t.Setenv("VIDAR_LAYOUT_PATH", "/etc/vidar/layout.yaml")
	t.Setenv("VIDAR_TRACING_ENABLED", "true")
	t.Setenv("VIDAR_TRACING_SAMPLE_RATE", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Environment != "production" {
		t.Fatalf("environment = %q, want production", cfg.Environment)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("http port = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.LayoutPath != "/etc/vidar/layout.yaml" {
		t.Fatalf("layout path = %q", cfg.LayoutPath)
	}
	if !cfg.TracingEnabled {
		t.Fatal("expected tracing enabled")
	}
	if cfg.TracingSampleRate != 0.25 {
		t.Fatalf("sample rate = %g, want 0.25", cfg.TracingSampleRate)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("VIDAR_HTTP_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("expected config load to fail for out-of-range port")
	}
}

func TestLoadRejectsInvalidSampleRate(t *testing.T) {
	t.Setenv("VIDAR_TRACING_SAMPLE_RATE", "1.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected config load to fail for sample rate above 1")
	}
}
