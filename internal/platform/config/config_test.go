package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("API_PREFIX", "")
	t.Setenv("UPLOAD_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "eshop" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port, got %q", cfg.HTTPPort)
	}
	if cfg.APIPrefix != "/api/v1" {
		t.Fatalf("expected default api prefix, got %q", cfg.APIPrefix)
	}
	if cfg.UploadDir != "public/uploads" {
		t.Fatalf("expected default upload dir, got %q", cfg.UploadDir)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestLoadNormalizesPrefix(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("API_PREFIX", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIPrefix != "/api/v2" {
		t.Fatalf("expected normalized prefix /api/v2, got %q", cfg.APIPrefix)
	}
}
