package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"MURMUR_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("MURMUR_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDotEnvSkipsMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() = %v, want nil", err)
	}
}

func TestLoadDotEnvKeepsProcessValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "MURMUR_TEST_DOTENV_A=from-file\nMURMUR_TEST_DOTENV_B=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("MURMUR_TEST_DOTENV_A", "from-process")
	t.Setenv("MURMUR_TEST_DOTENV_B", "")
	os.Unsetenv("MURMUR_TEST_DOTENV_B")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() = %v", err)
	}
	if got := os.Getenv("MURMUR_TEST_DOTENV_A"); got != "from-process" {
		t.Fatalf("A = %q, want %q", got, "from-process")
	}
	if got := os.Getenv("MURMUR_TEST_DOTENV_B"); got != "from-file" {
		t.Fatalf("B = %q, want %q", got, "from-file")
	}
}
