package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultHomeDir        = ".releaseflow"
	defaultBuildServerURL = "ws://localhost:7001/build"
	defaultRegistryURL    = "http://localhost:7001/"
	// DefaultConnectTimeout bounds the wait for the build service acknowledgement.
	DefaultConnectTimeout = 5 * time.Second
)

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Settings is the process-wide configuration, built once at start-up and passed
// by reference to every component that needs it.
type Settings struct {
	HomePath       string        `yaml:"home"`
	Debug          bool          `yaml:"debug"`
	BuildServerURL string        `yaml:"build_server_url"`
	RegistryURL    string        `yaml:"registry_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	RemoteName     string        `yaml:"remote"`
	ReleaseBranch  string        `yaml:"release_branch"`
	StrictPull     bool          `yaml:"strict_pull"`
	JournalPath    string        `yaml:"journal"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Settings{
		HomePath:       filepath.Join(home, defaultHomeDir),
		BuildServerURL: defaultBuildServerURL,
		RegistryURL:    defaultRegistryURL,
		ConnectTimeout: DefaultConnectTimeout,
		RemoteName:     DefaultRemoteName,
		ReleaseBranch:  DefaultReleaseBranch,
	}
}

// NewSettings loads the settings file at path on top of the defaults, then
// applies environment overrides. An empty path means "defaults only".
func NewSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		expanded := expandEnv(string(data))
		if unmarshalErr := yaml.Unmarshal([]byte(expanded), settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	}

	settings.applyEnvironment()

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// NewSettingsFromEnvironment looks for a settings file in the standard locations
// and falls back to the defaults when none exists.
func NewSettingsFromEnvironment() (*Settings, error) {
	path := os.Getenv("RELEASEFLOW_CONFIG")
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
		}
		path = found
	}
	return NewSettings(path)
}

// FindConfigFile searches for a settings file in standard locations.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{".", ".config"}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
			filepath.Join(homeDir, defaultHomeDir),
		)
	}

	patterns := []string{
		".releaseflow.yaml",
		".releaseflow.yml",
		"releaseflow.yaml",
		"releaseflow.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// EnsureHome creates the home cache directory if needed.
func (s *Settings) EnsureHome() error {
	if err := os.MkdirAll(s.HomePath, 0o755); err != nil {
		return fmt.Errorf("failed to create home directory %q: %w", s.HomePath, err)
	}
	return nil
}

// JournalFile returns the path of the run journal database.
func (s *Settings) JournalFile() string {
	if s.JournalPath != "" {
		return s.JournalPath
	}
	return filepath.Join(s.HomePath, "journal.db")
}

func (s *Settings) applyEnvironment() {
	if home := os.Getenv("RELEASEFLOW_HOME"); home != "" {
		s.HomePath = home
	}
	if os.Getenv("DEBUG") == "true" {
		s.Debug = true
	}
	if s.ConnectTimeout <= 0 {
		s.ConnectTimeout = DefaultConnectTimeout
	}
	if s.RemoteName == "" {
		s.RemoteName = DefaultRemoteName
	}
	if s.ReleaseBranch == "" {
		s.ReleaseBranch = DefaultReleaseBranch
	}
}

func (s *Settings) validate() error {
	if s.HomePath == "" {
		return errors.New("home path is required")
	}
	if _, err := url.ParseRequestURI(s.BuildServerURL); err != nil {
		return fmt.Errorf("build_server_url %q is invalid: %w", s.BuildServerURL, err)
	}
	if _, err := url.ParseRequestURI(s.RegistryURL); err != nil {
		return fmt.Errorf("registry_url %q is invalid: %w", s.RegistryURL, err)
	}
	return nil
}

// expandEnv replaces ${VAR} references with environment values.
func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}
