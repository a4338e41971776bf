package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Dispatcher fires GitHub repository and workflow dispatch events. It is a
// CI convenience around the generate flow, not part of it.
type Dispatcher struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewDispatcher(baseURL, token string) *Dispatcher {
	return &Dispatcher{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Workflow dispatches a reusable workflow file on the given ref.
func (d *Dispatcher) Workflow(ctx context.Context, repo, workflowFile, ref string, inputs map[string]string) error {
	path := fmt.Sprintf("/repos/%s/actions/workflows/%s/dispatches", repo, workflowFile)
	return d.post(ctx, path, map[string]any{"ref": ref, "inputs": inputs})
}

// Repository fires a repository_dispatch event of the given type.
func (d *Dispatcher) Repository(ctx context.Context, repo, eventType string, payload map[string]string) error {
	path := fmt.Sprintf("/repos/%s/dispatches", repo)
	return d.post(ctx, path, map[string]any{"event_type": eventType, "client_payload": payload})
}

func (d *Dispatcher) post(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal dispatch payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("dispatch %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}
