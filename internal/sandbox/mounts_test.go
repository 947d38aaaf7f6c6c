package sandbox

import (
	"strings"
	"testing"
)

func TestParseMount(t *testing.T) {
	tests := []struct {
		in      string
		want    Mount
		wantErr bool
	}{
		{"/src:/dst", Mount{Source: "/src", Target: "/dst"}, false},
		{"/src:/dst:ro", Mount{Source: "/src", Target: "/dst", ReadOnly: true}, false},
		{"/src:/dst:rw", Mount{Source: "/src", Target: "/dst"}, false},
		{"/src", Mount{}, true},
		{":/dst", Mount{}, true},
		{"/src:/dst:zz", Mount{}, true},
		{"/a:/b:/c:/d", Mount{}, true},
	}
	for _, tt := range tests {
		got, err := ParseMount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMount(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestMountString(t *testing.T) {
	m := Mount{Source: "/src", Target: "/dst", ReadOnly: true}
	if got := m.String(); got != "/src:/dst:ro" {
		t.Errorf("String() = %q", got)
	}
}

func TestForbiddenMount(t *testing.T) {
	forbidden := []string{".aws", ".ssh", ".env", "credentials", ".docker/config.json"}

	tests := []struct {
		source string
		want   string
	}{
		{"/home/dev/.aws", ".aws"},
		{"/home/dev/.aws/credentials", ".aws"},
		{"/home/dev/.ssh", ".ssh"},
		{"/home/dev/project/.env", ".env"},
		{"/home/dev/.docker/config.json", ".docker/config.json"},
		{"/home/dev/project", ""},
		{"/srv/not.ssh", ""},
		{"/home/dev/envfiles", ""},
	}
	for _, tt := range tests {
		got := ForbiddenMount(Mount{Source: tt.source, Target: "/x"}, forbidden)
		if got != tt.want {
			t.Errorf("ForbiddenMount(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestCheckMounts(t *testing.T) {
	forbidden := []string{".ssh"}

	if err := CheckMounts([]Mount{{Source: "/ws", Target: "/workspace"}}, forbidden); err != nil {
		t.Errorf("safe mounts should pass: %v", err)
	}

	err := CheckMounts([]Mount{
		{Source: "/ws", Target: "/workspace"},
		{Source: "/home/dev/.ssh", Target: "/keys"},
	}, forbidden)
	if err == nil {
		t.Fatal("expected error for .ssh mount")
	}
	if !strings.Contains(err.Error(), ".ssh") {
		t.Errorf("error should name the fragment: %v", err)
	}
}
