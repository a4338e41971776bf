package e2e

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cdaprod/nodeprop/internal/config"
	"github.com/cdaprod/nodeprop/internal/github"
	"github.com/cdaprod/nodeprop/internal/hash"
	"github.com/cdaprod/nodeprop/internal/nodeprop"
)

// Full pipeline: fetch from a fake API, generate, then independently verify
// the emitted artifacts against each other.
func TestGenerateThenVerifyPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widget":
			io.WriteString(w, `{"stargazers_count":5,"forks_count":2,"open_issues_count":1,
				"updated_at":"2025-06-01T12:00:00Z","license":{"spdx_id":"Apache-2.0"}}`)
		case "/repos/acme/widget/topics":
			io.WriteString(w, `{"names":["infra"]}`)
		default:
			io.WriteString(w, `[]`)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		ConfigFile:  filepath.Join(dir, ".nodeprop.yml"),
		HashFile:    filepath.Join(dir, ".nodeprop-hash"),
		StoragePath: filepath.Join(dir, "configs"),
		RepoRoot:    dir,
		Repository:  "acme/widget",
		SHA:         "deadbeefcafe1234",
		Actor:       "ci-bot",
		Token:       "tok",
		APIBaseURL:  srv.URL,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := nodeprop.NewService(cfg, github.NewClient(cfg.APIBaseURL, cfg.Token, logger), logger)

	outcome, err := svc.Generate(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	doc := outcome.Document
	if doc.Metadata.GitHub.Stars != 5 || doc.Metadata.GitHub.License != "Apache-2.0" {
		t.Errorf("fetched metadata missing: %+v", doc.Metadata.GitHub)
	}
	if len(doc.Capabilities) != 1 || doc.Capabilities[0] != "containerized" {
		t.Errorf("capabilities = %v", doc.Capabilities)
	}
	if doc.Metadata.Custom.Image != "acme/widget:deadbee" {
		t.Errorf("image = %q", doc.Metadata.Custom.Image)
	}

	// Side-channel id matches the document and its content address.
	rawID, err := os.ReadFile(cfg.HashFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(rawID) != doc.ID {
		t.Errorf("hash file = %q, want %q", rawID, doc.ID)
	}
	stored, err := os.ReadFile(filepath.Join(cfg.StoragePath, doc.ID[:2], doc.ID[2:]))
	if err != nil {
		t.Fatal(err)
	}
	if hash.ObjectID(stored) != doc.ID {
		t.Error("stored object does not hash to its own address")
	}

	result, err := nodeprop.Verify(cfg.ConfigFile, "../../schemas/nodeprop.schema.json")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Match {
		t.Fatalf("emitted document failed verification: %+v", result)
	}
	if len(result.SchemaErrors) > 0 {
		t.Fatalf("schema errors: %v", result.SchemaErrors)
	}
}
