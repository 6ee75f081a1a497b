// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "codeberg.org/cropdoctor/cropdoctor/core/audit" // setup better logging format
	"codeberg.org/cropdoctor/cropdoctor/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"CROPDOC_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"CROPDOC_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"CROPDOC_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"CROPDOC_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"CROPDOC_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"CROPDOC_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	Classifier struct {
		PredictURL     string        `env:"CROPDOC_CLASSIFIER_URL,overwrite" yaml:"predictUrl"`
		Timeout        time.Duration `env:"CROPDOC_CLASSIFIER_TIMEOUT,overwrite" yaml:"timeout"`
		MaxUploadBytes int64         `env:"CROPDOC_CLASSIFIER_MAX_UPLOAD_BYTES,overwrite" yaml:"maxUploadBytes"`
	} `yaml:"classifier"`

	ModelStore struct {
		Bucket          string `env:"CROPDOC_MODEL_BUCKET" yaml:"bucket"`
		Object          string `env:"CROPDOC_MODEL_OBJECT,overwrite" yaml:"object"`
		LocalPath       string `env:"CROPDOC_MODEL_LOCAL_PATH,overwrite" yaml:"localPath"`
		CredentialsFile string `env:"CROPDOC_MODEL_CREDENTIALS_FILE" yaml:"credentialsFile"`
	} `yaml:"modelStore"`

	Firestore struct {
		ProjectID       string `env:"CROPDOC_FIRESTORE_PROJECT_ID" yaml:"projectId"`
		CredentialsFile string `env:"CROPDOC_FIRESTORE_CREDENTIALS_FILE" yaml:"credentialsFile"`
	} `yaml:"firestore"`

	GenAI struct {
		APIKey            string        `env:"GEMINI_API_KEY" yaml:"apiKey"`
		Model             string        `env:"CROPDOC_GENAI_MODEL,overwrite" yaml:"model"`
		BaseURL           string        `env:"CROPDOC_GENAI_BASE_URL,overwrite" yaml:"baseUrl"`
		Timeout           time.Duration `env:"CROPDOC_GENAI_TIMEOUT,overwrite" yaml:"timeout"`
		RequestsPerMinute int           `env:"CROPDOC_GENAI_REQUESTS_PER_MINUTE,overwrite" yaml:"requestsPerMinute"`
	} `yaml:"genAI"`

	Geolocation struct {
		Enabled bool          `env:"CROPDOC_GEOLOCATION,overwrite" yaml:"enabled"`
		BaseURL string        `env:"CROPDOC_GEOLOCATION_BASE_URL,overwrite" yaml:"baseUrl"`
		Timeout time.Duration `env:"CROPDOC_GEOLOCATION_TIMEOUT,overwrite" yaml:"timeout"`
	} `yaml:"geolocation"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"CROPDOC_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment        bool   `env:"CROPDOC_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"CROPDOC_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"CROPDOC_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"CROPDOC_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"CROPDOC_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"CROPDOC_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (CROPDOC_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("CROPDOC_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		// Then, perform a fallback check for "./config.yml".
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var staticSkippedPathPrefixes = []string{"/img/", "/css/", "/js/"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	// Check for a Kubernetes-injected environment variable.
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	// Check for existence of container-specific files.
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// Check the cgroup of the current process.
	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		// Check for keywords common in container cgroup paths.
		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
