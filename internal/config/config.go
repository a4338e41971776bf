package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the explicit run configuration, built once at startup. No other
// component reads the environment directly.
type Config struct {
	ConfigFile  string // destination for the emitted document
	HashFile    string // side-channel file carrying the bare identifier
	StoragePath string // root of the content-addressed store
	RepoRoot    string // directory scanned for capability markers
	SpecFile    string // optional YAML merged into the document

	Token      string // GitHub API bearer token; empty means default metadata
	Repository string // "owner/name"
	SHA        string // full commit hash
	Actor      string // attributed owner of the run
	APIBaseURL string // GitHub API base, overridable for tests and GHES
	DomainBase string // base domain for derived network identifiers
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ConfigFile:  envOr("CONFIG_FILE_NAME", ".nodeprop.yml"),
		HashFile:    envOr("HASH_FILE_NAME", ".nodeprop-hash"),
		StoragePath: envOr("STORAGE_PATH", "configs"),
		RepoRoot:    envOr("REPO_ROOT", "."),
		SpecFile:    strings.TrimSpace(os.Getenv("SPEC_FILE_PATH")),
		Token:       strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		Repository:  envOr("GITHUB_REPOSITORY", "unknown/unknown"),
		SHA:         strings.TrimSpace(os.Getenv("GITHUB_SHA")),
		Actor:       envOr("GITHUB_ACTOR", "unknown"),
		APIBaseURL:  envOr("GITHUB_API_URL", "https://api.github.com"),
		DomainBase:  strings.TrimSpace(os.Getenv("NODEPROP_DOMAIN_BASE")),
	}
}

// OwnerRepo splits the repository identity. An identity without a slash
// keeps the raw value as the repo name under the unknown owner.
func (c Config) OwnerRepo() (string, string) {
	owner, repo, ok := strings.Cut(c.Repository, "/")
	if !ok {
		return "unknown", c.Repository
	}
	return owner, repo
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
