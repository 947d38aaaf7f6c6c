package sandbox

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"patternforge/internal/config"
)

func testConfig() config.SandboxConfig {
	return config.DefaultConfig().Sandbox
}

func TestBuildArgs(t *testing.T) {
	m := &Manager{workspace: "/ws", cfg: testConfig()}
	args := m.buildArgs()

	want := []string{"build", "-t", m.cfg.ImageRef(), "-f", filepath.Join("/ws", "Dockerfile"), "/ws"}
	if len(args) != len(want) {
		t.Fatalf("buildArgs = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("buildArgs[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestStartArgs_NetworkDisabled(t *testing.T) {
	cfg := testConfig()
	m := &Manager{workspace: "/ws", cfg: cfg}

	args := m.startArgs([]Mount{{Source: "/ws", Target: cfg.WorkspaceDir}})
	joined := strings.Join(args, " ")

	if !strings.Contains(joined, "--network none") {
		t.Errorf("startArgs missing --network none: %v", args)
	}
	if !strings.Contains(joined, "-v /ws:"+cfg.WorkspaceDir) {
		t.Errorf("startArgs missing workspace mount: %v", args)
	}
	if !strings.Contains(joined, "--name "+cfg.ContainerName) {
		t.Errorf("startArgs missing container name: %v", args)
	}
	if args[len(args)-2] != "sleep" || args[len(args)-1] != "infinity" {
		t.Errorf("startArgs should end with sleep infinity: %v", args)
	}
}

func TestStart_RefusesCredentialMount(t *testing.T) {
	cfg := testConfig()
	m := &Manager{workspace: "/ws", cfg: cfg, available: true, dockerPath: "docker"}

	_, err := m.Start(context.Background(), []Mount{{Source: "/home/dev/.aws", Target: "/creds"}})
	if err == nil {
		t.Fatal("expected refusal for .aws mount")
	}
	if !strings.Contains(err.Error(), "refusing to start") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUnavailableManager(t *testing.T) {
	m := &Manager{workspace: "/ws", cfg: testConfig()}

	if m.IsAvailable() {
		t.Error("manager without docker should not be available")
	}
	if _, err := m.runDocker(context.Background(), "ps"); err == nil {
		t.Error("runDocker should fail when docker is unavailable")
	}
	if m.ImageExists(context.Background()) {
		t.Error("image check should fail when docker is unavailable")
	}

	h := m.Validate(context.Background())
	if h.Healthy() {
		t.Error("validation should fail when docker is unavailable")
	}
	if len(h.Checks) != 1 || h.Checks[0].Name != "docker" {
		t.Errorf("expected single docker check, got %+v", h.Checks)
	}
}

func TestHealthRender(t *testing.T) {
	h := Health{Checks: []CheckResult{
		{Name: "docker", OK: true},
		{Name: "network isolation", OK: false, Detail: "network mode is bridge"},
	}}

	out := h.Render()
	if !strings.Contains(out, "PASS") || !strings.Contains(out, "FAIL") {
		t.Errorf("render missing statuses:\n%s", out)
	}
	if !strings.Contains(out, "sandbox has issues") {
		t.Errorf("render missing failure summary:\n%s", out)
	}
	if h.Healthy() {
		t.Error("health with a failed check should not be healthy")
	}
}
