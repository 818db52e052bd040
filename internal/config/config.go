package config

// Config represents the full application configuration.
type Config struct {
	Platform      string              `yaml:"platform"`
	GitHub        GitHubConfig        `yaml:"github"`
	GitLab        GitLabConfig        `yaml:"gitlab"`
	Report        ReportConfig        `yaml:"report"`
	HTTP          HTTPConfig          `yaml:"http"`
	Git           GitConfig           `yaml:"git"`
	Output        OutputConfig        `yaml:"output"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// GitHubConfig configures the GitHub pull request target.
type GitHubConfig struct {
	Token         string `yaml:"token"`
	BaseURL       string `yaml:"baseURL"`
	Owner         string `yaml:"owner"`
	Repo          string `yaml:"repo"`
	PullNumber    int    `yaml:"pullNumber"`
	StatusContext string `yaml:"statusContext"`
}

// GitLabConfig configures the GitLab merge request target.
type GitLabConfig struct {
	Token           string `yaml:"token"`
	BaseURL         string `yaml:"baseURL"`
	Project         string `yaml:"project"`
	MergeRequestIID int    `yaml:"mergeRequestIID"`
	StatusContext   string `yaml:"statusContext"`
}

// ReportConfig configures the reporting behavior.
type ReportConfig struct {
	// RemoveOldComments deletes comments from previous runs before posting.
	RemoveOldComments bool `yaml:"removeOldComments"`

	// Format is the findings input format: auto, golangci-lint, or text.
	Format string `yaml:"format"`

	// WriteArtifact writes a JSON summary of the run to the output directory.
	WriteArtifact bool `yaml:"writeArtifact"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, warning, error
	Format  string `yaml:"format"` // json, human
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	if overlay.Platform != "" {
		result.Platform = overlay.Platform
	}
	result.GitHub = chooseGitHub(base.GitHub, overlay.GitHub)
	result.GitLab = chooseGitLab(base.GitLab, overlay.GitLab)
	result.Report = chooseReport(base.Report, overlay.Report)
	result.HTTP = chooseHTTP(base.HTTP, overlay.HTTP)
	result.Git = chooseGit(base.Git, overlay.Git)
	result.Output = chooseOutput(base.Output, overlay.Output)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseGitHub(base, overlay GitHubConfig) GitHubConfig {
	result := base
	if overlay.Token != "" {
		result.Token = overlay.Token
	}
	if overlay.BaseURL != "" {
		result.BaseURL = overlay.BaseURL
	}
	if overlay.Owner != "" {
		result.Owner = overlay.Owner
	}
	if overlay.Repo != "" {
		result.Repo = overlay.Repo
	}
	if overlay.PullNumber != 0 {
		result.PullNumber = overlay.PullNumber
	}
	if overlay.StatusContext != "" {
		result.StatusContext = overlay.StatusContext
	}
	return result
}

func chooseGitLab(base, overlay GitLabConfig) GitLabConfig {
	result := base
	if overlay.Token != "" {
		result.Token = overlay.Token
	}
	if overlay.BaseURL != "" {
		result.BaseURL = overlay.BaseURL
	}
	if overlay.Project != "" {
		result.Project = overlay.Project
	}
	if overlay.MergeRequestIID != 0 {
		result.MergeRequestIID = overlay.MergeRequestIID
	}
	if overlay.StatusContext != "" {
		result.StatusContext = overlay.StatusContext
	}
	return result
}

func chooseReport(base, overlay ReportConfig) ReportConfig {
	result := base
	if overlay.RemoveOldComments {
		result.RemoveOldComments = true
	}
	if overlay.Format != "" {
		result.Format = overlay.Format
	}
	if overlay.WriteArtifact {
		result.WriteArtifact = true
	}
	return result
}

func chooseHTTP(base, overlay HTTPConfig) HTTPConfig {
	if overlay.Timeout != "" || overlay.MaxRetries != 0 || overlay.InitialBackoff != "" || overlay.MaxBackoff != "" || overlay.BackoffMultiplier != 0 {
		return overlay
	}
	return base
}

func chooseGit(base, overlay GitConfig) GitConfig {
	if overlay.RepositoryDir != "" {
		return overlay
	}
	return base
}

func chooseOutput(base, overlay OutputConfig) OutputConfig {
	if overlay.Directory != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base
	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	return result
}
