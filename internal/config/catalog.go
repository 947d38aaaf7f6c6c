package config

// CatalogConfig configures the pattern catalog layout.
type CatalogConfig struct {
	// Main catalog document, workspace-relative
	ReadmePath string `yaml:"readme_path"`

	// Pattern specification document
	SpecPath string `yaml:"spec_path"`

	// Accepted maturity levels, in order
	MaturityLevels []string `yaml:"maturity_levels"`

	// Accepted category headers
	Categories []string `yaml:"categories"`

	// Patterns expected to exist; validated against the reference table
	// when non-empty. Leave empty to take the expected set from the table.
	ExpectedPatterns []string `yaml:"expected_patterns"`
}

// SandboxConfig configures the Docker isolation sandbox.
type SandboxConfig struct {
	Image         string `yaml:"image"`
	Tag           string `yaml:"tag"`
	ContainerName string `yaml:"container_name"`
	Dockerfile    string `yaml:"dockerfile"`
	ComposePath   string `yaml:"compose_path"`

	// Mount point of the workspace inside the container
	WorkspaceDir string `yaml:"workspace_dir"`

	// AI tool binary expected inside the container
	Tool string `yaml:"tool"`

	// Host path fragments that must never be mounted into the sandbox
	ForbiddenMounts []string `yaml:"forbidden_mounts"`
}

// ImageRef returns the image reference including tag.
func (s SandboxConfig) ImageRef() string {
	if s.Tag == "" {
		return s.Image
	}
	return s.Image + ":" + s.Tag
}

// HasMaturity reports whether level is an accepted maturity level.
func (c CatalogConfig) HasMaturity(level string) bool {
	for _, m := range c.MaturityLevels {
		if m == level {
			return true
		}
	}
	return false
}

// HasCategory reports whether name is an accepted category.
func (c CatalogConfig) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat == name {
			return true
		}
	}
	return false
}
