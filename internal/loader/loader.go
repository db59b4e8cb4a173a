// Package loader fetches the raw monthly export files. The pipeline never
// reads the wall clock; the report month is an explicit parameter and the
// filename convention is derived from it here.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-ledger-summary-service/pkg/errors"
	"golang-ledger-summary-service/pkg/logger"
)

// Loader obtains a raw dataset by name.
type Loader interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// MonthlyFilename builds the export filename for a prefix and report month,
// following the {Prefix}_{MM}{YYYY}.xlsx convention.
func MonthlyFilename(prefix string, month time.Time) string {
	return fmt.Sprintf("%s_%02d%d.xlsx", prefix, int(month.Month()), month.Year())
}

// FilesystemLoader reads datasets from a local directory. Used by the CLI
// and in tests.
type FilesystemLoader struct {
	dir string
	log logger.Logger
}

// NewFilesystemLoader creates a loader rooted at the given directory.
func NewFilesystemLoader(dir string) *FilesystemLoader {
	return &FilesystemLoader{
		dir: dir,
		log: logger.GetGlobalLogger().WithComponent("fs_loader"),
	}
}

// Load reads the named dataset from the directory.
func (l *FilesystemLoader) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.InternalError("dataset load", err)
	}

	path := filepath.Join(l.dir, name)
	l.log.WithField("path", path).Debug("loading dataset from filesystem")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError(name, err)
		}
		return nil, errors.InternalError("dataset load", err).WithContext("path", path)
	}
	return data, nil
}
