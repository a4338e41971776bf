package types

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleDraft() Draft {
	return Draft{
		Name:         "acme/widget",
		Address:      "https://github.com/acme/widget",
		Capabilities: []string{"containerized"},
		Status:       StatusActive,
		Metadata: Metadata{
			Description: "Auto-generated configuration for acme/widget",
			Owner:       "ci-bot",
			LastUpdated: "2025-06-01T12:00:00Z",
			Tags:        []string{},
			GitHub: GitHub{
				License:      "No License",
				Topics:       []string{},
				LatestCommit: "2025-06-01T12:00:00Z",
			},
			Custom: CustomProperties{
				App:    "widget",
				Image:  "acme/widget:1234567",
				Domain: "widget.acme.dev",
			},
		},
		Extra: map[string]any{
			"artifacts": map[string]any{"backend": map[string]any{"runtime": "docker"}},
		},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{ID: strings.Repeat("ab", 32), Draft: sampleDraft()}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	var back Document
	if err := yaml.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != doc.ID {
		t.Errorf("id = %q", back.ID)
	}
	if back.Name != doc.Name || back.Address != doc.Address {
		t.Errorf("identity fields lost: %+v", back.Draft)
	}
	if back.Metadata.Custom.Image != "acme/widget:1234567" {
		t.Errorf("image = %q", back.Metadata.Custom.Image)
	}
	artifacts, ok := back.Extra["artifacts"].(map[string]any)
	if !ok {
		t.Fatalf("extra keys lost: %v", back.Extra)
	}
	if backend, ok := artifacts["backend"].(map[string]any); !ok || backend["runtime"] != "docker" {
		t.Fatalf("nested extra lost: %v", artifacts)
	}
}

func TestDocumentEmitsIDFirst(t *testing.T) {
	doc := Document{ID: strings.Repeat("cd", 32), Draft: sampleDraft()}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "id: ") {
		t.Fatalf("document does not lead with id:\n%s", raw)
	}
}

func TestDraftExcludesID(t *testing.T) {
	raw, err := yaml.Marshal(sampleDraft())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "\nid:") || strings.HasPrefix(string(raw), "id:") {
		t.Fatalf("draft must not carry an id:\n%s", raw)
	}
}

func TestExtraKeysEmittedSorted(t *testing.T) {
	d := sampleDraft()
	d.Extra = map[string]any{"zeta": 1, "alpha": 2}
	raw, err := yaml.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	if strings.Index(text, "alpha") > strings.Index(text, "zeta") {
		t.Fatalf("extra keys not sorted:\n%s", text)
	}
}
