package remote

import (
	"fmt"
	"strings"
)

const forbiddenKeyChars = ".$#[]"

// NormalizePath collapses repeated and trailing slashes and guarantees a
// leading one. The root is "/".
func NormalizePath(p string) string {
	segs := SplitPath(p)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// SplitPath returns the non-empty segments of p.
func SplitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinPath appends key, which may itself contain slashes, to base.
func JoinPath(base, key string) string {
	return NormalizePath(base + "/" + key)
}

// LastSegment returns the final segment of p, "" for the root.
func LastSegment(p string) string {
	segs := SplitPath(p)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// ValidatePath rejects segments containing characters the store forbids in
// keys. The root is always valid.
func ValidatePath(p string) error {
	for _, s := range SplitPath(p) {
		if strings.ContainsAny(s, forbiddenKeyChars) {
			return fmt.Errorf("%w: segment %q of %q", ErrInvalidPath, s, p)
		}
	}
	return nil
}

// IsPrefix reports whether path a is equal to or an ancestor of path b.
func IsPrefix(a, b []string) bool {
	if len(a) > len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
