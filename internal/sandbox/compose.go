package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"patternforge/internal/config"
)

var composeTmpl = template.Must(template.New("compose").Parse(`services:
  sandbox:
    build:
      context: .
      dockerfile: {{ .Dockerfile }}
    image: {{ .Image }}
    container_name: {{ .Container }}
    network_mode: none
    volumes:
      - .:{{ .WorkspaceDir }}
    environment:
      - WORKSPACE_DIR={{ .WorkspaceDir }}
    command: sleep infinity
`))

var dockerfileTmpl = template.Must(template.New("dockerfile").Parse(`FROM debian:bookworm-slim

RUN apt-get update && apt-get install -y --no-install-recommends \
        ca-certificates \
        git \
    && rm -rf /var/lib/apt/lists/*

RUN useradd --create-home --shell /bin/bash sandbox
USER sandbox
WORKDIR {{ .WorkspaceDir }}

CMD ["sleep", "infinity"]
`))

type composeData struct {
	Dockerfile   string
	Image        string
	Container    string
	WorkspaceDir string
}

// RenderCompose produces the docker compose file content for the sandbox.
func RenderCompose(cfg config.SandboxConfig) (string, error) {
	var b strings.Builder
	err := composeTmpl.Execute(&b, composeData{
		Dockerfile:   orDefault(cfg.Dockerfile, "Dockerfile"),
		Image:        cfg.ImageRef(),
		Container:    cfg.ContainerName,
		WorkspaceDir: cfg.WorkspaceDir,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderDockerfile produces the default sandbox Dockerfile content.
func RenderDockerfile(cfg config.SandboxConfig) (string, error) {
	var b strings.Builder
	if err := dockerfileTmpl.Execute(&b, composeData{WorkspaceDir: cfg.WorkspaceDir}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Init writes the compose file and Dockerfile into the workspace, skipping
// files that already exist. It returns the paths it created.
func Init(workspace string, cfg config.SandboxConfig) ([]string, error) {
	var created []string

	files := []struct {
		path   string
		render func(config.SandboxConfig) (string, error)
	}{
		{orDefault(cfg.ComposePath, "docker-compose.yml"), RenderCompose},
		{orDefault(cfg.Dockerfile, "Dockerfile"), RenderDockerfile},
	}

	for _, f := range files {
		dst := filepath.Join(workspace, f.path)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return created, err
		}
		content, err := f.render(cfg)
		if err != nil {
			return created, err
		}
		if err := os.WriteFile(dst, []byte(content), 0644); err != nil {
			return created, fmt.Errorf("write %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}
	return created, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
