package exports

import (
	"path"
	"strings"
)

// Lookup resolves subpath ("./dist/x.js" or "#foo/bar") against root (as
// built by Build) under conditions, returning the ordered candidate
// targets (resolution attempts them in order, per spec.md §4.2).
func Lookup(root Node, subpath string, conditions map[string]bool) ([]string, Status) {
	if !root.IsSubpathMap {
		return nil, StatusNull
	}

	// Exact, non-wildcard key first.
	for _, entry := range root.Conditions {
		if !strings.HasSuffix(entry.Key, "*") && entry.Key == subpath {
			return resolveTarget(entry.Value, "", false, conditions)
		}
	}

	// Then the best-matching expansion key: a "*" wildcard or a
	// trailing-slash directory prefix. Longest matching key wins.
	bestIdx := -1
	bestLen := -1
	bestCaptured := ""
	bestPattern := false
	for i, entry := range root.Conditions {
		key := entry.Key
		if strings.HasSuffix(key, "*") {
			prefix := key[:len(key)-1]
			if strings.HasPrefix(subpath, prefix) && subpath != prefix && len(prefix) > bestLen {
				bestIdx, bestLen = i, len(prefix)
				bestCaptured = subpath[len(prefix):]
				bestPattern = true
			}
			continue
		}
		if strings.HasSuffix(key, "/") && strings.HasPrefix(subpath, key) && len(key) > bestLen {
			bestIdx, bestLen = i, len(key)
			bestCaptured = subpath[len(key):]
			bestPattern = false
		}
	}
	if bestIdx < 0 {
		return nil, StatusNull
	}

	result, status := resolveTarget(root.Conditions[bestIdx].Value, bestCaptured, bestPattern, conditions)
	if !bestPattern && status == StatusExact {
		status = StatusInexact
	}
	return result, status
}

func resolveTarget(n Node, capturedSubpath string, pattern bool, conditions map[string]bool) ([]string, Status) {
	switch {
	case n.String != nil:
		target := *n.String

		if !pattern && capturedSubpath != "" && !strings.HasSuffix(target, "/") {
			return nil, StatusInvalidModuleSpecifier
		}
		if target != "." && !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "#") && !isBareSpecifier(target) {
			return nil, StatusInvalidPackageTarget
		}
		if hasInvalidSegment(target) || hasInvalidSegment(capturedSubpath) {
			return nil, StatusInvalidPackageTarget
		}

		if pattern {
			return []string{strings.ReplaceAll(target, "*", capturedSubpath)}, StatusExact
		}
		if capturedSubpath == "" {
			return []string{target}, StatusExact
		}
		return []string{joinTarget(target, capturedSubpath)}, StatusExact

	case n.Array != nil:
		var lastStatus = StatusUndefined
		for _, item := range n.Array {
			result, status := resolveTarget(item, capturedSubpath, pattern, conditions)
			if status == StatusInvalidPackageTarget || status == StatusNull {
				lastStatus = status
				continue
			}
			if status == StatusUndefined {
				continue
			}
			return result, status
		}
		if len(n.Array) == 0 {
			return nil, StatusNull
		}
		return nil, lastStatus

	case len(n.Conditions) > 0 && !n.IsSubpathMap:
		for _, entry := range n.Conditions {
			if entry.Key == "default" || conditions[entry.Key] {
				result, status := resolveTarget(entry.Value, capturedSubpath, pattern, conditions)
				if status == StatusUndefined {
					continue
				}
				return result, status
			}
		}
		return nil, StatusUndefined

	default:
		return nil, StatusNull
	}
}

// isBareSpecifier permits a target to be a bare package specifier (e.g.
// "#util" -> "lodash/util"). resolveTarget applies it to "exports" and
// "imports" lookups alike, so a bare target under "exports" is accepted
// as well.
func isBareSpecifier(target string) bool {
	return target != "" && target[0] != '.' && target[0] != '/'
}

// hasInvalidSegment rejects ".", "..", or "node_modules" path segments
// after the first, per node's Invalid Package Target / Invalid Module
// Specifier rules (grounded on the teacher's hasInvalidSegment).
func hasInvalidSegment(p string) bool {
	slash := strings.IndexAny(p, "/\\")
	if slash == -1 {
		return false
	}
	rest := p[slash+1:]
	for rest != "" {
		slash := strings.IndexAny(rest, "/\\")
		segment := rest
		if slash != -1 {
			segment = rest[:slash]
			rest = rest[slash+1:]
		} else {
			rest = ""
		}
		if segment == "." || segment == ".." || segment == "node_modules" {
			return true
		}
	}
	return false
}

func joinTarget(target, subpath string) string {
	return path.Join(target, subpath)
}
