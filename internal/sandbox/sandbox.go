package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"patternforge/internal/config"
	"patternforge/internal/logging"
)

// Manager drives an isolated Docker container for running AI tools against
// the workspace. The container has no network access and never sees host
// credential directories. All operations go through the docker CLI.
type Manager struct {
	workspace  string
	cfg        config.SandboxConfig
	dockerPath string
	available  bool
}

// NewManager creates a sandbox manager for the workspace. Docker availability
// is probed once at construction.
func NewManager(workspace string, cfg config.SandboxConfig) *Manager {
	m := &Manager{workspace: workspace, cfg: cfg}
	m.detectDocker()
	return m
}

func (m *Manager) detectDocker() {
	log := logging.L(logging.CategorySandbox)

	path, err := exec.LookPath("docker")
	if err != nil {
		log.Debugw("docker binary not found in PATH")
		return
	}
	m.dockerPath = path

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "version", "--format", "{{.Server.Version}}")
	if err := cmd.Run(); err != nil {
		log.Warnw("docker found but not responsive", "error", err)
		return
	}
	m.available = true
}

// IsAvailable reports whether a responsive docker daemon was found.
func (m *Manager) IsAvailable() bool {
	return m.available
}

// runDocker runs a docker subcommand and returns its trimmed stdout.
func (m *Manager) runDocker(ctx context.Context, args ...string) (string, error) {
	if !m.available {
		return "", fmt.Errorf("docker is not available")
	}

	cmd := exec.CommandContext(ctx, m.dockerPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("docker %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// buildArgs assembles the docker build invocation.
func (m *Manager) buildArgs() []string {
	dockerfile := m.cfg.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}
	return []string{
		"build",
		"-t", m.cfg.ImageRef(),
		"-f", filepath.Join(m.workspace, dockerfile),
		m.workspace,
	}
}

// Build builds the sandbox image. Build output streams to the terminal.
func (m *Manager) Build(ctx context.Context) error {
	if !m.available {
		return fmt.Errorf("docker is not available")
	}
	log := logging.L(logging.CategorySandbox)
	log.Infow("building sandbox image", "image", m.cfg.ImageRef())

	cmd := exec.CommandContext(ctx, m.dockerPath, m.buildArgs()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker build failed: %w", err)
	}
	log.Infow("sandbox image built", "image", m.cfg.ImageRef())
	return nil
}

// startArgs assembles the docker run invocation for the given mounts.
// The container runs detached with networking disabled and is kept alive
// so commands can be executed in it later.
func (m *Manager) startArgs(mounts []Mount) []string {
	args := []string{
		"run", "-d", "--rm",
		"--name", m.cfg.ContainerName,
		"--network", "none",
		"-e", "WORKSPACE_DIR=" + m.cfg.WorkspaceDir,
	}
	for _, mnt := range mounts {
		args = append(args, "-v", mnt.String())
	}
	args = append(args, m.cfg.ImageRef(), "sleep", "infinity")
	return args
}

// Start launches the sandbox container. The workspace is bind-mounted at the
// configured mount point; extra mounts are rejected when they would expose a
// credential path.
func (m *Manager) Start(ctx context.Context, extra []Mount) (string, error) {
	mounts := append([]Mount{{Source: m.workspace, Target: m.cfg.WorkspaceDir}}, extra...)

	for _, mnt := range mounts {
		if frag := ForbiddenMount(mnt, m.cfg.ForbiddenMounts); frag != "" {
			return "", fmt.Errorf("refusing to start: mount %s exposes credential path %q", mnt.Source, frag)
		}
	}

	log := logging.L(logging.CategorySandbox)
	id, err := m.runDocker(ctx, m.startArgs(mounts)...)
	if err != nil {
		return "", err
	}
	log.Infow("sandbox started", "container", m.cfg.ContainerName, "id", shortID(id))
	return id, nil
}

// Stop stops the sandbox container. The container is removed automatically
// because it was started with --rm.
func (m *Manager) Stop(ctx context.Context) error {
	log := logging.L(logging.CategorySandbox)
	if _, err := m.runDocker(ctx, "stop", "-t", "10", m.cfg.ContainerName); err != nil {
		return err
	}
	log.Infow("sandbox stopped", "container", m.cfg.ContainerName)
	return nil
}

// Shell attaches an interactive shell (or the given command) inside the
// running sandbox, wired to the caller's terminal.
func (m *Manager) Shell(ctx context.Context, command []string) error {
	if !m.available {
		return fmt.Errorf("docker is not available")
	}
	args := []string{"exec", "-it", "-w", m.cfg.WorkspaceDir, m.cfg.ContainerName}
	if len(command) > 0 {
		args = append(args, command...)
	} else {
		args = append(args, "/bin/bash")
	}

	cmd := exec.CommandContext(ctx, m.dockerPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Running reports whether the sandbox container is running.
func (m *Manager) Running(ctx context.Context) (bool, error) {
	out, err := m.runDocker(ctx, "inspect", "-f", "{{.State.Running}}", m.cfg.ContainerName)
	if err != nil {
		return false, err
	}
	return out == "true", nil
}

// NetworkMode returns the container's network mode.
func (m *Manager) NetworkMode(ctx context.Context) (string, error) {
	return m.runDocker(ctx, "inspect", "-f", "{{.HostConfig.NetworkMode}}", m.cfg.ContainerName)
}

// Mounts returns the container's active mounts.
func (m *Manager) Mounts(ctx context.Context) ([]Mount, error) {
	out, err := m.runDocker(ctx, "inspect", "-f",
		`{{range .Mounts}}{{.Source}}:{{.Destination}}{{"\n"}}{{end}}`, m.cfg.ContainerName)
	if err != nil {
		return nil, err
	}

	var mounts []Mount
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		mnt, err := ParseMount(line)
		if err != nil {
			continue
		}
		mounts = append(mounts, mnt)
	}
	return mounts, nil
}

// ToolPresent reports whether the configured AI tool binary exists inside
// the container.
func (m *Manager) ToolPresent(ctx context.Context) bool {
	if m.cfg.Tool == "" {
		return true
	}
	_, err := m.runDocker(ctx, "exec", m.cfg.ContainerName, "which", m.cfg.Tool)
	return err == nil
}

// ImageExists reports whether the sandbox image is present locally.
func (m *Manager) ImageExists(ctx context.Context) bool {
	_, err := m.runDocker(ctx, "image", "inspect", m.cfg.ImageRef())
	return err == nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
