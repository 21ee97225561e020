package resolver

import "strings"

// joinPosix joins path segments with "/" and collapses "." / ".." the
// way node's URL resolution does, independent of host OS separators —
// the pipeline normalizes everything to POSIX-style paths internally
// and only hands the caller's fs.FS real separators at the very edges
// (ReadFile/ReadDirectory/stat).
func joinPosix(base, rel string) string {
	if rel == "" {
		return base
	}
	if strings.HasPrefix(rel, "/") {
		return cleanPosix(rel)
	}
	return cleanPosix(base + "/" + rel)
}

func cleanPosix(p string) string {
	abs := strings.HasPrefix(p, "/")
	parts := strings.Split(p, "/")
	var out []string
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if !abs {
				out = append(out, "..")
			}
		default:
			out = append(out, part)
		}
	}
	joined := strings.Join(out, "/")
	if abs {
		return "/" + joined
	}
	return joined
}

func dirOf(p string) string {
	slash := strings.LastIndexByte(p, '/')
	if slash <= 0 {
		if slash == 0 {
			return "/"
		}
		return "."
	}
	return p[:slash]
}
