package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CONFIG_FILE_NAME", "HASH_FILE_NAME", "STORAGE_PATH", "REPO_ROOT",
		"SPEC_FILE_PATH", "GITHUB_TOKEN", "GITHUB_REPOSITORY", "GITHUB_SHA",
		"GITHUB_ACTOR", "GITHUB_API_URL", "NODEPROP_DOMAIN_BASE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.ConfigFile != ".nodeprop.yml" {
		t.Errorf("config file = %q", cfg.ConfigFile)
	}
	if cfg.HashFile != ".nodeprop-hash" {
		t.Errorf("hash file = %q", cfg.HashFile)
	}
	if cfg.StoragePath != "configs" {
		t.Errorf("storage path = %q", cfg.StoragePath)
	}
	if cfg.Repository != "unknown/unknown" {
		t.Errorf("repository = %q", cfg.Repository)
	}
	if cfg.Actor != "unknown" {
		t.Errorf("actor = %q", cfg.Actor)
	}
	if cfg.APIBaseURL != "https://api.github.com" {
		t.Errorf("api base = %q", cfg.APIBaseURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "acme/widget")
	t.Setenv("GITHUB_SHA", "1234567abcdef")
	t.Setenv("GITHUB_ACTOR", "ci-bot")
	t.Setenv("GITHUB_API_URL", "http://127.0.0.1:9999")

	cfg := Load()
	if cfg.Repository != "acme/widget" || cfg.SHA != "1234567abcdef" || cfg.Actor != "ci-bot" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:9999" {
		t.Errorf("api base = %q", cfg.APIBaseURL)
	}
}

func TestOwnerRepo(t *testing.T) {
	cfg := Config{Repository: "acme/widget"}
	owner, repo := cfg.OwnerRepo()
	if owner != "acme" || repo != "widget" {
		t.Fatalf("got %s, %s", owner, repo)
	}

	cfg = Config{Repository: "solo"}
	owner, repo = cfg.OwnerRepo()
	if owner != "unknown" || repo != "solo" {
		t.Fatalf("got %s, %s", owner, repo)
	}
}
