package sandbox

import (
	"context"
	"fmt"
	"strings"
)

// CheckResult is the outcome of one sandbox health check.
type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

// Health is the outcome of a full sandbox validation run.
type Health struct {
	Checks []CheckResult
}

// Healthy reports whether every check passed.
func (h Health) Healthy() bool {
	for _, c := range h.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// Render formats the health report for the terminal.
func (h Health) Render() string {
	var b strings.Builder
	for _, c := range h.Checks {
		status := "PASS"
		if !c.OK {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%-20s %s", c.Name, status)
		if c.Detail != "" {
			fmt.Fprintf(&b, "  (%s)", c.Detail)
		}
		b.WriteByte('\n')
	}
	if h.Healthy() {
		b.WriteString("\nsandbox is healthy and properly isolated\n")
	} else {
		b.WriteString("\nsandbox has issues\n")
	}
	return b.String()
}

// Validate verifies the sandbox is running, isolated from the network, free
// of credential mounts, and has the AI tool installed.
func (m *Manager) Validate(ctx context.Context) Health {
	var h Health
	add := func(name string, ok bool, detail string) {
		h.Checks = append(h.Checks, CheckResult{Name: name, OK: ok, Detail: detail})
	}

	if !m.available {
		add("docker", false, "docker daemon not available")
		return h
	}
	add("docker", true, "")

	if m.ImageExists(ctx) {
		add("image", true, m.cfg.ImageRef())
	} else {
		add("image", false, m.cfg.ImageRef()+" not built (run `forge sandbox build`)")
	}

	running, err := m.Running(ctx)
	switch {
	case err != nil:
		add("container", false, fmt.Sprintf("inspect failed: %v", err))
		return h
	case !running:
		add("container", false, m.cfg.ContainerName+" not running")
		return h
	default:
		add("container", true, m.cfg.ContainerName)
	}

	mode, err := m.NetworkMode(ctx)
	if err != nil {
		add("network isolation", false, err.Error())
	} else if mode != "none" {
		add("network isolation", false, "network mode is "+mode)
	} else {
		add("network isolation", true, "")
	}

	mounts, err := m.Mounts(ctx)
	if err != nil {
		add("credential mounts", false, err.Error())
	} else if err := CheckMounts(mounts, m.cfg.ForbiddenMounts); err != nil {
		add("credential mounts", false, err.Error())
	} else {
		add("credential mounts", true, "")
	}

	workspaceMounted := false
	for _, mnt := range mounts {
		if mnt.Target == m.cfg.WorkspaceDir {
			workspaceMounted = true
			break
		}
	}
	add("workspace mount", workspaceMounted, m.cfg.WorkspaceDir)

	if m.ToolPresent(ctx) {
		add("tool", true, m.cfg.Tool)
	} else {
		add("tool", false, m.cfg.Tool+" not found in container")
	}

	return h
}
