package netid

import (
	"fmt"
	"strings"
)

// Identifiers are the naming strings derived for a repository. Derivation is
// a pure function of owner, repo, and the domain base.
type Identifiers struct {
	Namespace   string
	Domain      string
	ServiceName string
	ServiceDNS  string
	ClusterDNS  string
}

// Derive builds network identifiers from the repository identity. An empty
// domainBase falls back to "<owner>.dev" with the owner lowercased.
func Derive(owner, repo, domainBase string) Identifiers {
	if domainBase == "" {
		domainBase = strings.ToLower(owner) + ".dev"
	}
	namespace := owner + "-network"
	return Identifiers{
		Namespace:   namespace,
		Domain:      fmt.Sprintf("%s.%s", repo, domainBase),
		ServiceName: repo,
		ServiceDNS:  fmt.Sprintf("%s.%s.svc", repo, namespace),
		ClusterDNS:  fmt.Sprintf("%s.%s.svc.cluster.local", repo, namespace),
	}
}
