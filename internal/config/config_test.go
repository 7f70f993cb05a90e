package config

import "testing"

func TestValidateRealtimeBackend(t *testing.T) {
	cfg := &Config{Env: "development", RealtimeBackend: "memory"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("memory backend should validate: %v", err)
	}

	cfg = &Config{Env: "development", RealtimeBackend: "redis"}
	if err := cfg.Validate(); err == nil {
		t.Error("redis backend without REDIS_URL should fail validation")
	}

	cfg = &Config{Env: "development", RealtimeBackend: "redis", RedisURL: "redis://localhost:6379/0"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("redis backend with REDIS_URL should validate: %v", err)
	}

	cfg = &Config{Env: "development", RealtimeBackend: "kafka"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown backend should fail validation")
	}
}

func TestValidateJWTSecret(t *testing.T) {
	cfg := &Config{Env: "production", RealtimeBackend: "memory"}
	if err := cfg.Validate(); err == nil {
		t.Error("production without JWT_SECRET should fail validation")
	}

	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("production with JWT_SECRET should validate: %v", err)
	}
}
