package capability

import (
	"os"
	"path/filepath"
	"sort"
)

// DefaultMarkers maps well-known marker paths to the capability tag they
// assert. Several markers may assert the same tag.
var DefaultMarkers = map[string]string{
	"Dockerfile":          "containerized",
	"docker-compose.yml":  "docker-compose",
	"docker-compose.yaml": "docker-compose",
	".github/workflows":   "pipeline",
	"deploy.yaml":         "deployable",
	"deploy.yml":          "deployable",
}

// Detect returns the sorted, de-duplicated set of capability tags whose
// marker path exists under root. A missing marker is simply absent from the
// result; this never fails.
func Detect(root string, markers map[string]string) []string {
	seen := make(map[string]struct{})
	for marker, tag := range markers {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			seen[tag] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
