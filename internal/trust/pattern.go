package trust

import "strings"

// Match reports whether name matches a wildcard pattern,
// case-insensitively. '*' matches any run of characters (including
// path separators), '?' matches exactly one. This mirrors shell-style
// fnmatch semantics rather than path globbing, so a pattern like
// "c:\\program files*\\*.exe" spans directory boundaries.
func Match(pattern, name string) bool {
	return matchFold(strings.ToLower(pattern), strings.ToLower(name))
}

// MatchAny reports whether name matches any of the patterns.
func MatchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if Match(p, name) {
			return true
		}
	}
	return false
}

// matchFold runs a classic iterative wildcard match with single-star
// backtracking. Inputs are already lowercased.
func matchFold(pattern, s string) bool {
	p, n := 0, 0
	star, mark := -1, 0
	for n < len(s) {
		switch {
		case p < len(pattern) && (pattern[p] == '?' || pattern[p] == s[n]):
			p++
			n++
		case p < len(pattern) && pattern[p] == '*':
			star, mark = p, n
			p++
		case star >= 0:
			mark++
			p, n = star+1, mark
		default:
			return false
		}
	}
	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}

// NormalizePath lowers and canonicalizes an executable path so Windows
// and POSIX spellings compare equal.
func NormalizePath(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
}

// MatchPath reports whether an executable path matches any expected
// install-location pattern, after normalization on both sides.
func MatchPath(path string, expected []string) bool {
	if path == "" {
		return false
	}
	norm := NormalizePath(path)
	for _, e := range expected {
		if matchFold(NormalizePath(e), norm) {
			return true
		}
	}
	return false
}
