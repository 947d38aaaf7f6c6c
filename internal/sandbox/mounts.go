package sandbox

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mount is a host-to-container bind mount.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// ParseMount parses "source:target" or "source:target:ro".
func ParseMount(s string) (Mount, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Mount{}, fmt.Errorf("invalid mount %q: want source:target[:ro]", s)
	}
	m := Mount{Source: parts[0], Target: parts[1]}
	if m.Source == "" || m.Target == "" {
		return Mount{}, fmt.Errorf("invalid mount %q: empty source or target", s)
	}
	if len(parts) == 3 {
		switch parts[2] {
		case "ro":
			m.ReadOnly = true
		case "rw":
		default:
			return Mount{}, fmt.Errorf("invalid mount mode %q in %q", parts[2], s)
		}
	}
	return m, nil
}

// String renders the mount in docker -v syntax.
func (m Mount) String() string {
	s := m.Source + ":" + m.Target
	if m.ReadOnly {
		s += ":ro"
	}
	return s
}

// ForbiddenMount reports the first forbidden path fragment the mount source
// would expose, or "" when the mount is safe. Fragments match whole path
// segments, so ".ssh" rejects "/home/me/.ssh" but not "/srv/not.ssh".
func ForbiddenMount(m Mount, forbidden []string) string {
	src := "/" + strings.Trim(filepath.ToSlash(filepath.Clean(m.Source)), "/") + "/"
	for _, frag := range forbidden {
		f := "/" + strings.Trim(filepath.ToSlash(frag), "/") + "/"
		if strings.Contains(src, f) {
			return frag
		}
	}
	return ""
}

// CheckMounts returns an error naming every mount that exposes a forbidden
// path fragment. A nil error means all mounts are safe.
func CheckMounts(mounts []Mount, forbidden []string) error {
	var bad []string
	for _, m := range mounts {
		if frag := ForbiddenMount(m, forbidden); frag != "" {
			bad = append(bad, fmt.Sprintf("%s (matches %q)", m.Source, frag))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("forbidden mounts: %s", strings.Join(bad, ", "))
	}
	return nil
}
