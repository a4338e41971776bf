package nodeprop

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cdaprod/nodeprop/internal/capability"
	"github.com/cdaprod/nodeprop/internal/config"
	"github.com/cdaprod/nodeprop/internal/github"
	"github.com/cdaprod/nodeprop/internal/hash"
	"github.com/cdaprod/nodeprop/internal/netid"
	"github.com/cdaprod/nodeprop/internal/store"
	"github.com/cdaprod/nodeprop/pkg/types"
)

// Fetcher is the metadata collaborator; it absorbs its own failures.
type Fetcher interface {
	Fetch(ctx context.Context, owner, repo string) github.Result
}

// Service runs the generate flow: detect, fetch, assemble, hash, store, emit.
type Service struct {
	cfg     config.Config
	fetcher Fetcher
	logger  *slog.Logger
}

func NewService(cfg config.Config, fetcher Fetcher, logger *slog.Logger) *Service {
	return &Service{cfg: cfg, fetcher: fetcher, logger: logger}
}

// Outcome reports what one generate run produced.
type Outcome struct {
	Document   types.Document
	Canonical  []byte
	ConfigPath string
	HashPath   string
	ObjectPath string
	Defaulted  bool
}

// Generate assembles the document, identifies it, and persists the three
// outputs. The primary document and hash files are fatal on failure; the
// content-addressed copy is best-effort.
func (s *Service) Generate(ctx context.Context) (Outcome, error) {
	owner, repo := s.cfg.OwnerRepo()

	caps := capability.Detect(s.cfg.RepoRoot, capability.DefaultMarkers)
	result := s.fetcher.Fetch(ctx, owner, repo)
	if result.Defaulted {
		s.logger.Warn("running with degraded metadata", "reason", result.Reason)
	}

	extra, err := s.loadSpecFile()
	if err != nil {
		s.logger.Warn("spec file ignored", "path", s.cfg.SpecFile, "error", err)
		extra = nil
	}

	draft := Assemble(Inputs{
		Owner:        owner,
		Repo:         repo,
		Actor:        s.cfg.Actor,
		SHA:          s.cfg.SHA,
		Capabilities: caps,
		GitHub:       result.Metadata,
		Net:          netid.Derive(owner, repo, s.cfg.DomainBase),
		Extra:        extra,
		Now:          time.Now(),
	})

	id, canonical, err := hash.HashCanonicalYAML(draft)
	if err != nil {
		return Outcome{}, fmt.Errorf("canonicalize document: %w", err)
	}
	doc := types.Document{ID: id, Draft: draft}

	outcome := Outcome{
		Document:  doc,
		Canonical: canonical,
		Defaulted: result.Defaulted,
	}

	objPath, err := store.Write(s.cfg.StoragePath, id, canonical)
	if err != nil {
		s.logger.Warn("content store write failed", "error", err)
	} else {
		outcome.ObjectPath = objPath
	}

	emitted, err := yaml.Marshal(doc)
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(s.cfg.ConfigFile, emitted, 0o644); err != nil {
		return Outcome{}, fmt.Errorf("write config file: %w", err)
	}
	outcome.ConfigPath = s.cfg.ConfigFile

	if err := os.WriteFile(s.cfg.HashFile, []byte(id), 0o644); err != nil {
		return Outcome{}, fmt.Errorf("write hash file: %w", err)
	}
	outcome.HashPath = s.cfg.HashFile

	s.logger.Info("configuration generated", "id", id, "config", outcome.ConfigPath)
	return outcome, nil
}

// loadSpecFile reads the optional spec YAML whose top-level mappings are
// merged into the document as extra keys.
func (s *Service) loadSpecFile() (map[string]any, error) {
	if s.cfg.SpecFile == "" {
		return nil, nil
	}
	if !hash.FileExists(s.cfg.SpecFile) {
		return nil, fmt.Errorf("spec file %s does not exist", s.cfg.SpecFile)
	}
	raw, err := os.ReadFile(s.cfg.SpecFile)
	if err != nil {
		return nil, err
	}
	extra := map[string]any{}
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("parse spec file: %w", err)
	}
	for _, core := range []string{"id", "name", "address", "capabilities", "status", "metadata"} {
		delete(extra, core)
	}
	if len(extra) == 0 {
		return nil, nil
	}
	return extra, nil
}
