// Package config assembles the runtime settings of the summarizer from viper.
package config

import (
	"golang-ledger-summary-service/internal/loader"
	"golang-ledger-summary-service/internal/summarize"
	"golang-ledger-summary-service/pkg/errors"

	"github.com/spf13/viper"
)

// Storage backend names.
const (
	StorageAzure      = "azure"
	StorageFilesystem = "filesystem"
)

// Settings holds everything the summarizer needs at runtime.
type Settings struct {
	Storage          string
	ConnectionString string
	Container        string
	DataDir          string
	LedgerPrefix     string
	ReferencePrefix  string
	ListenAddr       string
}

// Load reads the settings from viper, applying defaults.
func Load() (*Settings, error) {
	v := viper.GetViper()
	v.SetDefault("storage", StorageAzure)
	v.SetDefault("ledger_prefix", "T1")
	v.SetDefault("reference_prefix", "Claroscore")
	v.SetDefault("listen_addr", ":8080")

	settings := &Settings{
		Storage:          v.GetString("storage"),
		ConnectionString: v.GetString("storage_connection_string"),
		Container:        v.GetString("storage_container"),
		DataDir:          v.GetString("data_dir"),
		LedgerPrefix:     v.GetString("ledger_prefix"),
		ReferencePrefix:  v.GetString("reference_prefix"),
		ListenAddr:       v.GetString("listen_addr"),
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks that the selected storage backend is fully configured.
func (s *Settings) Validate() error {
	switch s.Storage {
	case StorageAzure:
		if s.ConnectionString == "" {
			return errors.ConfigurationError(errors.CodeMissingSetting, "storage_connection_string", nil).
				WithSuggestion("set SUMMARIZER_STORAGE_CONNECTION_STRING")
		}
		if s.Container == "" {
			return errors.ConfigurationError(errors.CodeMissingSetting, "storage_container", nil).
				WithSuggestion("set SUMMARIZER_STORAGE_CONTAINER")
		}
	case StorageFilesystem:
		if s.DataDir == "" {
			return errors.ConfigurationError(errors.CodeMissingSetting, "data_dir", nil).
				WithSuggestion("set SUMMARIZER_DATA_DIR to the directory holding the monthly exports")
		}
	default:
		return errors.ConfigurationError(errors.CodeInvalidSetting, "storage", nil).
			WithSuggestion("use azure or filesystem").
			WithContext("value", s.Storage)
	}
	return nil
}

// NewLoader builds the dataset loader for the configured backend.
func (s *Settings) NewLoader() (loader.Loader, error) {
	switch s.Storage {
	case StorageFilesystem:
		return loader.NewFilesystemLoader(s.DataDir), nil
	default:
		return loader.NewBlobLoader(s.ConnectionString, s.Container)
	}
}

// ServiceConfig builds the summary service configuration.
func (s *Settings) ServiceConfig() summarize.Config {
	return summarize.Config{
		LedgerPrefix:    s.LedgerPrefix,
		ReferencePrefix: s.ReferencePrefix,
	}
}
