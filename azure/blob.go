package azure

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/friendsofgo/errors"
)

type StorageAccountBlob struct {
	Service   string
	Container string
	Path      string
}

func (s StorageAccountBlob) URL() string {
	return fmt.Sprintf("%s/%s/%s", s.serviceURL(), s.Container, s.Path)
}

func (s StorageAccountBlob) serviceURL() string {
	return fmt.Sprintf("https://%s", s.Service)
}

// ParseBlobURI parses "https://<storageaccount>.blob.core.windows.net/<containername>[/<path>]".
// When the URI has no blob path, defaultName is used.
func ParseBlobURI(blobURI string, defaultName string) (*StorageAccountBlob, error) {
	parsed, err := url.ParseRequestURI(blobURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse as an URI")
	}

	if parsed.Scheme != "https" {
		return nil, errors.Errorf("expected an https URI, got %s", parsed.Scheme)
	}

	pathParts := strings.SplitN(strings.TrimPrefix(parsed.Path, "/"), "/", 2)
	if len(strings.Trim(pathParts[0], "/")) == 0 {
		return nil, errors.Errorf("expected at least container name to be included in URI path")
	}

	blobPath := defaultName
	if len(pathParts) == 2 && strings.Trim(pathParts[1], "/") != "" {
		blobPath = pathParts[1]
		if strings.HasSuffix(blobPath, "/") {
			blobPath += defaultName
		}
	}

	return &StorageAccountBlob{
		Service:   parsed.Host,
		Container: pathParts[0],
		Path:      blobPath,
	}, nil
}

func UploadBlob(ctx context.Context, credential azcore.TokenCredential, blob *StorageAccountBlob, data []byte) error {
	client, err := azblob.NewClient(blob.serviceURL(), credential, nil)
	if err != nil {
		return errors.Wrap(err, "failed to initialize Azure SDK")
	}

	if _, err := client.UploadBuffer(ctx, blob.Container, blob.Path, data, nil); err != nil {
		return errors.Wrapf(err, "failed to upload to %s", blob.URL())
	}

	return nil
}
