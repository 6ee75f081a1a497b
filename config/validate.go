package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/cropdoctor/cropdoctor/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errClassifierURLRequired        = errors.New("classifier.predictUrl cannot be empty")
	errFirestoreCredentialsRequired = errors.New("firestore.credentialsFile is required when firestore.projectId is set")
	errModelObjectRequired          = errors.New("modelStore.object cannot be empty when modelStore.bucket is set")
	errInvalidUploadLimit           = errors.New("classifier.maxUploadBytes must be positive")
	errInvalidRequestBudget         = errors.New("genAI.requestsPerMinute cannot be negative")
)

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates some fields.
func (cfg *ServerConfig) validateAndSet() error {
	// Handle listener configuration
	if cfg.Basic.UnixSocket != "" {
		if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
			return errUnixSocketWithHostPort
		}

		// Handle unix socket permissions
		switch {
		case cfg.Basic.RawUnixSocketPermissions == "":
			cfg.Basic.UnixSocketPermissions = 0o666
		case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
			rawModeUint64, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

			cfg.Basic.UnixSocketPermissions = os.FileMode(rawModeUint64)
		case fileModeStringRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
			mode := os.FileMode(0)

			for i, c := range cfg.Basic.RawUnixSocketPermissions {
				// If permission bit is set
				if c != '-' {
					// Set i-th bit from the end
					const bitsInByte = 8

					mode |= 1 << (bitsInByte - i)
				}
			}

			cfg.Basic.UnixSocketPermissions = mode
		default:
			return errUnixSocketInvalidPermissions
		}

		// Check if user is valid
		if cfg.Basic.UnixSocketUser != "" {
			if digitsRegexp.MatchString(cfg.Basic.UnixSocketUser) {
				if _, err := user.LookupId(cfg.Basic.UnixSocketUser); err != nil {
					return errUnixSocketUserDoesNotExist
				}
			} else {
				if _, err := user.Lookup(cfg.Basic.UnixSocketUser); err != nil {
					return errUnixSocketUserDoesNotExist
				}
			}
		}

		// Check if group is valid
		if cfg.Basic.UnixSocketGroup != "" {
			if digitsRegexp.MatchString(cfg.Basic.UnixSocketGroup) {
				if _, err := user.LookupGroupId(cfg.Basic.UnixSocketGroup); err != nil {
					return errUnixSocketGroupDoesNotExist
				}
			} else {
				if _, err := user.LookupGroup(cfg.Basic.UnixSocketGroup); err != nil {
					return errUnixSocketGroupDoesNotExist
				}
			}
		}
	} else {
		// Set TCP defaults
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8282"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}
	}

	// Validate classifier endpoint
	if cfg.Classifier.PredictURL == "" {
		return errClassifierURLRequired
	}

	if _, err := utils.ParseURL(cfg.Classifier.PredictURL, "classifier"); err != nil {
		return fmt.Errorf("invalid classifier URL: %w", err)
	}

	if cfg.Classifier.MaxUploadBytes <= 0 {
		return errInvalidUploadLimit
	}

	// Firestore is optional, but a project without credentials cannot be dialed
	if cfg.Firestore.ProjectID != "" && cfg.Firestore.CredentialsFile == "" {
		return errFirestoreCredentialsRequired
	}

	// Model download is optional too
	if cfg.ModelStore.Bucket != "" && cfg.ModelStore.Object == "" {
		return errModelObjectRequired
	}

	if cfg.GenAI.RequestsPerMinute < 0 {
		return errInvalidRequestBudget
	}

	if cfg.GenAI.APIKey == "" {
		log.Warn().
			Msg("No generative API key configured; diagnosis reports will be unavailable")
	}

	// Validate geolocation endpoint
	if cfg.Geolocation.Enabled {
		if _, err := utils.ParseURL(cfg.Geolocation.BaseURL, "geolocation"); err != nil {
			return fmt.Errorf("invalid geolocation URL: %w", err)
		}
	}

	// Validate RepoURL
	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	return nil
}
