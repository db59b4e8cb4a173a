package config

import (
	"testing"

	"golang-ledger-summary-service/pkg/errors"
)

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{
			name:     "azure fully configured",
			settings: Settings{Storage: StorageAzure, ConnectionString: "UseDevelopmentStorage=true", Container: "exports"},
			wantErr:  false,
		},
		{
			name:     "azure missing connection string",
			settings: Settings{Storage: StorageAzure, Container: "exports"},
			wantErr:  true,
		},
		{
			name:     "azure missing container",
			settings: Settings{Storage: StorageAzure, ConnectionString: "UseDevelopmentStorage=true"},
			wantErr:  true,
		},
		{
			name:     "filesystem configured",
			settings: Settings{Storage: StorageFilesystem, DataDir: "/data"},
			wantErr:  false,
		},
		{
			name:     "filesystem missing dir",
			settings: Settings{Storage: StorageFilesystem},
			wantErr:  true,
		},
		{
			name:     "unknown backend",
			settings: Settings{Storage: "s3"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsCategory(err, errors.CategoryConfiguration) {
				t.Errorf("Validate() error = %v, want configuration category", err)
			}
		})
	}
}

func TestNewLoaderFilesystem(t *testing.T) {
	settings := Settings{Storage: StorageFilesystem, DataDir: t.TempDir()}
	l, err := settings.NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if l == nil {
		t.Fatal("NewLoader() = nil")
	}
}

func TestServiceConfig(t *testing.T) {
	settings := Settings{LedgerPrefix: "T1", ReferencePrefix: "Claroscore"}
	cfg := settings.ServiceConfig()
	if cfg.LedgerPrefix != "T1" || cfg.ReferencePrefix != "Claroscore" {
		t.Errorf("ServiceConfig() = %+v", cfg)
	}
}
