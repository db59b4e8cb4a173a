package loader

import (
	"context"
	"io"

	"golang-ledger-summary-service/pkg/errors"
	"golang-ledger-summary-service/pkg/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// BlobLoader downloads datasets from an Azure Blob Storage container, where
// the monthly exports are published.
type BlobLoader struct {
	client    *azblob.Client
	container string
	log       logger.Logger
}

// NewBlobLoader creates a loader for the given connection string and
// container.
func NewBlobLoader(connectionString, container string) (*BlobLoader, error) {
	if connectionString == "" {
		return nil, errors.ConfigurationError(errors.CodeMissingSetting, "storage_connection_string", nil).
			WithSuggestion("set SUMMARIZER_STORAGE_CONNECTION_STRING or the storage.connection_string config key")
	}
	if container == "" {
		return nil, errors.ConfigurationError(errors.CodeMissingSetting, "storage_container", nil)
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidSetting, "storage_connection_string", err)
	}

	return &BlobLoader{
		client:    client,
		container: container,
		log:       logger.GetGlobalLogger().WithComponent("blob_loader"),
	}, nil
}

// Load downloads the named blob and returns its bytes.
func (l *BlobLoader) Load(ctx context.Context, name string) ([]byte, error) {
	l.log.WithFields(logger.Fields{
		"container": l.container,
		"blob":      name,
	}).Debug("downloading dataset blob")

	resp, err := l.client.DownloadStream(ctx, l.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, errors.NotFoundError(name, err).WithContext("container", l.container)
		}
		return nil, errors.InternalError("blob download", err).
			WithContext("container", l.container).
			WithContext("blob", name)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.InternalError("blob download", err).WithContext("blob", name)
	}

	l.log.WithFields(logger.Fields{
		"blob":  name,
		"bytes": len(data),
	}).Debug("dataset blob downloaded")
	return data, nil
}
