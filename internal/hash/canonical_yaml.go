package hash

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrCycle is returned when the value graph references itself.
	ErrCycle = errors.New("cyclic structure cannot be canonicalized")
	// ErrNonFinite is returned for NaN or infinite floating point values.
	ErrNonFinite = errors.New("non-finite number cannot be canonicalized")
)

// CanonicalYAML serializes v into a deterministic YAML form: mapping keys are
// sorted lexicographically at every nesting level and scalars use a fixed
// formatting, so logically equal values always produce identical bytes
// regardless of construction order.
func CanonicalYAML(v any) ([]byte, error) {
	tree, err := normalize(v, map[uintptr]struct{}{})
	if err != nil {
		return nil, err
	}
	node, err := canonicalNode(tree)
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("encode canonical form: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize reduces v to a generic tree of map[string]any, []any, and
// scalars. Structs and other typed values go through a yaml round trip so
// their tags are honored, matching what an emitted document decodes back to.
func normalize(v any, visiting map[uintptr]struct{}) (any, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case bool, string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return vv, nil
	case float32:
		return checkFinite(float64(vv))
	case float64:
		return checkFinite(vv)
	case time.Time:
		return vv.UTC().Format(time.RFC3339), nil
	case []any:
		ptr, tracked := slicePointer(vv)
		if tracked {
			if _, ok := visiting[ptr]; ok {
				return nil, ErrCycle
			}
			visiting[ptr] = struct{}{}
			defer delete(visiting, ptr)
		}
		out := make([]any, 0, len(vv))
		for _, item := range vv {
			n, err := normalize(item, visiting)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil
	case map[string]any:
		ptr := reflect.ValueOf(vv).Pointer()
		if _, ok := visiting[ptr]; ok {
			return nil, ErrCycle
		}
		visiting[ptr] = struct{}{}
		defer delete(visiting, ptr)
		out := make(map[string]any, len(vv))
		for k, item := range vv {
			n, err := normalize(item, visiting)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		return nil, fmt.Errorf("mapping with non-string keys cannot be canonicalized")
	default:
		raw, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal for canonicalization: %w", err)
		}
		var tree any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("decode for canonicalization: %w", err)
		}
		return normalize(tree, visiting)
	}
}

func checkFinite(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrNonFinite
	}
	return f, nil
}

// slicePointer reports the backing-array address of a slice so self-referential
// slices can be detected. Empty slices have no backing array to track.
func slicePointer(s []any) (uintptr, bool) {
	if cap(s) == 0 {
		return 0, false
	}
	return reflect.ValueOf(s).Pointer(), true
}

// canonicalNode builds an explicitly ordered yaml node tree from a normalized
// generic tree. Key order in mappings is the sorted order, which the encoder
// preserves verbatim.
func canonicalNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(vv)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv}, nil
	case int:
		return intNode(int64(vv)), nil
	case int8:
		return intNode(int64(vv)), nil
	case int16:
		return intNode(int64(vv)), nil
	case int32:
		return intNode(int64(vv)), nil
	case int64:
		return intNode(vv), nil
	case uint:
		return uintNode(uint64(vv)), nil
	case uint8:
		return uintNode(uint64(vv)), nil
	case uint16:
		return uintNode(uint64(vv)), nil
	case uint32:
		return uintNode(uint64(vv)), nil
	case uint64:
		return uintNode(vv), nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(vv, 'g', -1, 64)}, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(vv) == 0 {
			node.Style = yaml.FlowStyle
		}
		for _, item := range vv {
			child, err := canonicalNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if len(vv) == 0 {
			node.Style = yaml.FlowStyle
		}
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := canonicalNode(vv[k])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported canonical value %T", v)
	}
}

func intNode(v int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
}

func uintNode(v uint64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(v, 10)}
}
