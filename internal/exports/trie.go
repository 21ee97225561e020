// Package exports compiles package.json "exports"/"imports" subtrees
// into the subpath pattern trie spec.md §3/§4.2 describes, and performs
// lookup with condition selection against it. The algorithm follows
// node's ESM resolver as implemented by the teacher's peMap/peEntry and
// esmPackageExportsResolve/esmPackageTargetResolve family
// (evanw-esbuild/internal/resolver/package_json.go), restructured around
// spec.md's own PathTreeNode data model (a condition-map node versus a
// subpath-map node flagged by IsSubpathMap, rather than the teacher's
// single peEntry union). Subpath keys are kept as a flat ordered list
// and matched by prefix in Lookup, not walked segment by segment.
package exports

import (
	"strings"

	"github.com/bvanjoi/node-resolver/internal/jsonvalue"
)

// Node is one node of the subpath map. Invariant (spec.md §3): the keys
// in a node's Conditions are either all subpath patterns (IsSubpathMap)
// or all condition names — never both; Build rejects a mix with
// errMixedKeys.
type Node struct {
	// Leaf forms: exactly one of these is non-nil for a terminal node.
	String *string
	Array  []Node
	// Conditions is the ordered list of condition-name -> nested Node
	// when IsSubpathMap is false (the "default" key always matches, and
	// ordering is priority), or the ordered list of pattern-key -> nested
	// Node when IsSubpathMap is true.
	Conditions   []ConditionEntry
	IsSubpathMap bool
}

type ConditionEntry struct {
	Key   string
	Value Node
}

// Status mirrors the teacher's peStatus: why a match attempt ended.
type Status uint8

const (
	StatusNull Status = iota
	StatusUndefined
	StatusExact
	StatusInexact
	StatusInvalidModuleSpecifier
	StatusInvalidPackageTarget
)

// Build compiles a parsed "exports" or "imports" JSON value into a
// top-level Node. isImports selects the "#"-prefixed key validation
// rule; for "exports" a bare string/array value is treated as if it had
// been written under the implicit "." key.
func Build(v jsonvalue.Value, isImports bool) (Node, error) {
	if !isImports && (v.Kind == jsonvalue.String || v.Kind == jsonvalue.Array) {
		leaf, err := build(v, isImports, false)
		if err != nil {
			return Node{}, err
		}
		return Node{IsSubpathMap: true, Conditions: []ConditionEntry{{Key: ".", Value: leaf}}}, nil
	}
	return build(v, isImports, true)
}

func build(v jsonvalue.Value, isImports bool, top bool) (Node, error) {
	switch v.Kind {
	case jsonvalue.String:
		s := v.Str
		return Node{String: &s}, nil
	case jsonvalue.Null:
		return Node{}, nil
	case jsonvalue.Array:
		items := make([]Node, len(v.Arr))
		for i, item := range v.Arr {
			n, err := build(item, isImports, false)
			if err != nil {
				return Node{}, err
			}
			items[i] = n
		}
		return Node{Array: items}, nil
	case jsonvalue.Object:
		if len(v.ObjKeys) == 0 {
			return Node{Conditions: nil}, nil
		}
		keyPrefix := byte('.')
		if isImports {
			keyPrefix = '#'
		}
		startsWithPrefix := v.ObjKeys[0] != "" && v.ObjKeys[0][0] == keyPrefix
		for _, k := range v.ObjKeys {
			hasPrefix := k != "" && k[0] == keyPrefix
			if hasPrefix != startsWithPrefix {
				return Node{}, errMixedKeys
			}
		}

		if startsWithPrefix {
			// A map keyed by subpath pattern. At the top level this is
			// the real trie body; nested, it should not occur (subpath
			// keys only appear once, at the exports/imports root) but
			// is tolerated the same way for robustness.
			out := Node{}
			for i, k := range v.ObjKeys {
				n, err := build(v.ObjVals[i], isImports, false)
				if err != nil {
					return Node{}, err
				}
				out.Conditions = append(out.Conditions, ConditionEntry{Key: k, Value: n})
			}
			out.IsSubpathMap = true
			return out, nil
		}

		// A condition map: every key is a condition name (or "default").
		out := Node{}
		for i, k := range v.ObjKeys {
			n, err := build(v.ObjVals[i], isImports, false)
			if err != nil {
				return Node{}, err
			}
			out.Conditions = append(out.Conditions, ConditionEntry{Key: k, Value: n})
		}
		_ = top
		return out, nil
	}
	return Node{}, nil
}

var errMixedKeys = mixedKeysError{}

type mixedKeysError struct{}

func (mixedKeysError) Error() string {
	return "cannot mix subpath patterns and condition names at the same level of \"exports\"/\"imports\""
}
