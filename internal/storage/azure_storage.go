package storage

import (
	"context"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	apperrors "go-darkness-grader/internal/errors"
)

// AzureImageSource reads images from Azure blob storage. References use the
// form azblob://<container>/<blob path>.
type AzureImageSource struct {
	client *azblob.Client
}

// NewAzureImageSource creates an Azure blob image source with shared key
// credentials
func NewAzureImageSource(accountName, accountKey string) (*AzureImageSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &AzureImageSource{client: client}, nil
}

// Fetch downloads and decodes the referenced blob.
func (s *AzureImageSource) Fetch(ctx context.Context, ref string) (image.Image, error) {
	container, blob, err := parseBlobRef(ref)
	if err != nil {
		return nil, apperrors.NewUsageError("invalid blob reference", err)
	}

	resp, err := s.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, apperrors.NewIOError("failed to download blob "+ref, err)
	}
	defer resp.Body.Close()

	img, err := decodeImage(resp.Body)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to process image "+ref, err)
	}
	return img, nil
}

func parseBlobRef(ref string) (container, blob string, err error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", "", err
	}
	container = parsed.Host
	blob = strings.TrimPrefix(parsed.Path, "/")
	if container == "" || blob == "" {
		return "", "", fmt.Errorf("blob reference must be azblob://<container>/<blob>")
	}
	return container, blob, nil
}
