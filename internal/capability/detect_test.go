package capability

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectDockerfileOnly(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Dockerfile"), []byte("FROM scratch\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := Detect(root, DefaultMarkers)
	if !reflect.DeepEqual(got, []string{"containerized"}) {
		t.Fatalf("got %v, want [containerized]", got)
	}
}

func TestDetectEmpty(t *testing.T) {
	got := Detect(t.TempDir(), DefaultMarkers)
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
}

func TestDetectDeduplicatesAndSorts(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"docker-compose.yml", "docker-compose.yaml", "Dockerfile"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got := Detect(root, DefaultMarkers)
	if !reflect.DeepEqual(got, []string{"containerized", "docker-compose"}) {
		t.Fatalf("got %v", got)
	}
}

func TestDetectDirectoryMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".github", "workflows"), 0o755); err != nil {
		t.Fatal(err)
	}
	got := Detect(root, DefaultMarkers)
	if !reflect.DeepEqual(got, []string{"pipeline"}) {
		t.Fatalf("got %v", got)
	}
}
