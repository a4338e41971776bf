package types

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

const StatusActive = "active"

// Draft is the assembled configuration descriptor before it has been
// identified. It deliberately has no id field: the content hash is computed
// over a Draft, never over a Document, so a document can never contain a
// hash of itself.
type Draft struct {
	Name         string         `yaml:"name"`
	Address      string         `yaml:"address"`
	Capabilities []string       `yaml:"capabilities"`
	Status       string         `yaml:"status"`
	Metadata     Metadata       `yaml:"metadata"`
	Extra        map[string]any `yaml:"-"`
}

// Document is a Draft with its content hash embedded. It is what gets
// written to the primary config file, id first.
type Document struct {
	ID    string `yaml:"id"`
	Draft `yaml:"-"`
}

type Metadata struct {
	Description string           `yaml:"description"`
	Owner       string           `yaml:"owner"`
	LastUpdated string           `yaml:"last_updated"`
	Tags        []string         `yaml:"tags"`
	GitHub      GitHub           `yaml:"github"`
	Custom      CustomProperties `yaml:"custom_properties"`
}

type GitHub struct {
	Stars        int      `yaml:"stars"`
	Forks        int      `yaml:"forks"`
	Issues       int      `yaml:"issues"`
	PullRequests Counts   `yaml:"pull_requests"`
	LatestCommit string   `yaml:"latest_commit"`
	License      string   `yaml:"license"`
	Topics       []string `yaml:"topics"`
}

type Counts struct {
	Open   int `yaml:"open"`
	Closed int `yaml:"closed"`
}

// CustomProperties carries deployment-facing fields. The pointer fields are
// intentional placeholders that render as null until an operator fills them
// in downstream.
type CustomProperties struct {
	DeployEnvironment *string    `yaml:"deploy_environment"`
	MonitoringEnabled *bool      `yaml:"monitoring_enabled"`
	AutoScale         *bool      `yaml:"auto_scale"`
	Service           *string    `yaml:"service"`
	App               string     `yaml:"app"`
	Image             string     `yaml:"image"`
	Network           string     `yaml:"network"`
	Networking        Networking `yaml:"networking"`
	Domain            string     `yaml:"domain"`
}

type Networking struct {
	ServiceDNS string `yaml:"service_dns"`
	ClusterDNS string `yaml:"cluster_dns"`
}

// coreKeys are the top-level keys owned by the typed fields; everything else
// round-trips through Extra.
var coreKeys = map[string]bool{
	"id":           true,
	"name":         true,
	"address":      true,
	"capabilities": true,
	"status":       true,
	"metadata":     true,
}

// MarshalYAML emits the typed fields in declaration order followed by the
// extra keys in sorted order.
func (d Draft) MarshalYAML() (any, error) {
	type plain Draft
	node := &yaml.Node{}
	if err := node.Encode(plain(d)); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(d.Extra[k]); err != nil {
			return nil, fmt.Errorf("encode extra key %s: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			valueNode)
	}
	return node, nil
}

// UnmarshalYAML decodes the typed fields and gathers unknown top-level keys
// into Extra. An id key is ignored here; Document owns it.
func (d *Draft) UnmarshalYAML(value *yaml.Node) error {
	type plain Draft
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*d = Draft(p)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		if coreKeys[key] {
			continue
		}
		var v any
		if err := value.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("decode extra key %s: %w", key, err)
		}
		if d.Extra == nil {
			d.Extra = map[string]any{}
		}
		d.Extra[key] = v
	}
	return nil
}

func (doc Document) MarshalYAML() (any, error) {
	draftAny, err := doc.Draft.MarshalYAML()
	if err != nil {
		return nil, err
	}
	draftNode, ok := draftAny.(*yaml.Node)
	if !ok || draftNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("draft did not encode to a mapping")
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "id"},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: doc.ID})
	node.Content = append(node.Content, draftNode.Content...)
	return node, nil
}

func (doc *Document) UnmarshalYAML(value *yaml.Node) error {
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "id" {
			if err := value.Content[i+1].Decode(&doc.ID); err != nil {
				return fmt.Errorf("decode id: %w", err)
			}
		}
	}
	return doc.Draft.UnmarshalYAML(value)
}
