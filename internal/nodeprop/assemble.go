package nodeprop

import (
	"fmt"
	"time"

	"github.com/cdaprod/nodeprop/internal/netid"
	"github.com/cdaprod/nodeprop/pkg/types"
)

// Inputs carries everything the assembler combines into a draft document.
type Inputs struct {
	Owner        string
	Repo         string
	Actor        string
	SHA          string
	Capabilities []string
	GitHub       types.GitHub
	Net          netid.Identifiers
	Extra        map[string]any
	Now          time.Time
}

// Assemble builds the draft descriptor. The timestamp is computed once so
// every reference inside one document agrees, and the result deliberately
// has no id field.
func Assemble(in Inputs) types.Draft {
	fullName := in.Owner + "/" + in.Repo
	stamp := in.Now.UTC().Format(time.RFC3339)
	caps := in.Capabilities
	if caps == nil {
		caps = []string{}
	}
	return types.Draft{
		Name:         fullName,
		Address:      "https://github.com/" + fullName,
		Capabilities: caps,
		Status:       types.StatusActive,
		Metadata: types.Metadata{
			Description: fmt.Sprintf("Auto-generated configuration for %s", fullName),
			Owner:       in.Actor,
			LastUpdated: stamp,
			Tags:        in.GitHub.Topics,
			GitHub:      in.GitHub,
			Custom: types.CustomProperties{
				App:     in.Repo,
				Image:   fmt.Sprintf("%s:%s", fullName, shortSHA(in.SHA)),
				Network: in.Net.Namespace,
				Networking: types.Networking{
					ServiceDNS: in.Net.ServiceDNS,
					ClusterDNS: in.Net.ClusterDNS,
				},
				Domain: in.Net.Domain,
			},
		},
		Extra: in.Extra,
	}
}

// shortSHA truncates to the conventional 7-character display prefix; shorter
// values pass through verbatim.
func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
