package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// ObjectID computes the content identifier for canonical bytes using the
// git-object header convention: sha256("config <size>\x00" + content),
// hex encoded.
func ObjectID(canonical []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "config %d\x00", len(canonical))
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil))
}

// HashCanonicalYAML canonicalizes v and returns its content identifier
// together with the canonical bytes the identifier was computed over.
func HashCanonicalYAML(v any) (string, []byte, error) {
	canonical, err := CanonicalYAML(v)
	if err != nil {
		return "", nil, err
	}
	return ObjectID(canonical), canonical, nil
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
