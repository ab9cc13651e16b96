package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidServerPort(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Port = 70000 // Out of range

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
	if !strings.Contains(err.Error(), "max") {
		t.Errorf("Expected 'max' validation error, got: %v", err)
	}
}

func TestValidate_InvalidSampleRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for sample rate above 1.0")
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Auth.Secret = "too-short"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for short JWT secret")
	}
	if !strings.Contains(err.Error(), "32 characters") {
		t.Errorf("Expected secret length error, got: %v", err)
	}
}

func TestValidate_EmptyJWTSecretAllowed(t *testing.T) {
	// An empty secret is allowed at config level: it may arrive via
	// DITTODRIVE_JWT_SECRET, and the server refuses to start without one.
	cfg := GetDefaultConfig()
	cfg.Auth.Secret = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected empty secret to pass config validation, got: %v", err)
	}
}

func TestValidate_S3RequiresBucket(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Blob.S3.Bucket = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for s3 blob store without bucket")
	}
	if !strings.Contains(err.Error(), "bucket") {
		t.Errorf("Expected bucket error, got: %v", err)
	}
}

func TestValidate_MemoryBlobNeedsNoBucket(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Blob.Type = "memory"
	cfg.Blob.S3.Bucket = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected memory blob store without bucket to validate, got: %v", err)
	}
}

func TestValidate_PostgresRequiresConnectionDetails(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Database.Type = "postgres"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for postgres without host")
	}
	if !strings.Contains(err.Error(), "host") {
		t.Errorf("Expected host error, got: %v", err)
	}
}

func TestValidate_BadgerCacheRequiresPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cache.Backend = "badger"
	cfg.Cache.Path = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for badger cache without path")
	}
}

func TestValidate_InvalidCacheBackend(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cache.Backend = "redis"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unsupported cache backend")
	}
}

func TestValidate_SharingTTLBounds(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Sharing.DefaultTTL = 48 * time.Hour
	cfg.Sharing.MaxTTL = time.Hour

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error when default_ttl exceeds max_ttl")
	}
	if !strings.Contains(err.Error(), "max_ttl") {
		t.Errorf("Expected ttl bound error, got: %v", err)
	}
}
