package nodeprop

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cdaprod/nodeprop/internal/hash"
	"github.com/cdaprod/nodeprop/pkg/schema"
	"github.com/cdaprod/nodeprop/pkg/types"
)

// Exit codes for verification failures.
const (
	ExitHashMismatch = 20
	ExitSchemaFail   = 21
)

// VerifyResult reports an identifier recomputation and schema check over an
// emitted document.
type VerifyResult struct {
	ID           string   `json:"id"`
	Recomputed   string   `json:"recomputed"`
	Match        bool     `json:"match"`
	SchemaErrors []string `json:"schema_errors,omitempty"`
}

// Verify re-derives the draft from an emitted document, recomputes its
// content identifier, and validates the document against the JSON schema
// when schemaPath is non-empty.
func Verify(docPath, schemaPath string) (VerifyResult, error) {
	raw, err := os.ReadFile(docPath)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("read document %s: %w", docPath, err)
	}

	var doc types.Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return VerifyResult{}, fmt.Errorf("parse document %s: %w", docPath, err)
	}
	if doc.ID == "" {
		return VerifyResult{}, fmt.Errorf("document %s has no id", docPath)
	}

	recomputed, _, err := hash.HashCanonicalYAML(doc.Draft)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("recompute identifier: %w", err)
	}

	result := VerifyResult{
		ID:         doc.ID,
		Recomputed: recomputed,
		Match:      recomputed == doc.ID,
	}

	if schemaPath != "" {
		var generic map[string]any
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return VerifyResult{}, fmt.Errorf("parse document %s: %w", docPath, err)
		}
		errs, err := schema.Validate(schemaPath, generic)
		if err != nil {
			return VerifyResult{}, err
		}
		result.SchemaErrors = errs
	}
	return result, nil
}
