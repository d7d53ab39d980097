package storage

import (
	"net/url"

	apperrors "go-darkness-grader/internal/errors"
)

// Resolver picks the image source implementation for a source reference:
// http(s) URLs go to the HTTP source, azblob references to the Azure source,
// anything else is treated as a local file path.
type Resolver struct {
	file  ImageSource
	http  ImageSource
	azure ImageSource // nil when Azure credentials are not configured
}

// NewResolver creates a source resolver. azure may be nil.
func NewResolver(file, http, azure ImageSource) *Resolver {
	return &Resolver{file: file, http: http, azure: azure}
}

// ForRef returns the source responsible for the given reference.
func (r *Resolver) ForRef(ref string) (ImageSource, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, apperrors.NewUsageError("invalid source reference", err)
	}

	switch parsed.Scheme {
	case "http", "https":
		return r.http, nil
	case "azblob":
		if r.azure == nil {
			return nil, apperrors.NewUsageError("azure blob source is not configured", nil)
		}
		return r.azure, nil
	default:
		return r.file, nil
	}
}
