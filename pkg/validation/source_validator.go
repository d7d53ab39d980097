package validation

import (
	"net/url"
	"strings"

	apperrors "go-darkness-grader/internal/errors"
)

// SourceValidator checks image source references before any fetch happens.
// A reference is either a local file path, an http(s) URL, or an
// azblob://container/blob reference.
type SourceValidator struct {
	allowedSchemes []string
}

// NewSourceValidator creates a source validator with the default scheme set.
func NewSourceValidator() *SourceValidator {
	return &SourceValidator{
		allowedSchemes: []string{"http", "https", "azblob"},
	}
}

// ValidateSource validates an image source reference.
func (v *SourceValidator) ValidateSource(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return apperrors.NewUsageError("image source cannot be empty", nil)
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return apperrors.NewUsageError("invalid source reference", err)
	}

	// No scheme means a local file path, which is always acceptable here;
	// existence is the file source's concern.
	if parsed.Scheme == "" {
		return nil
	}
	// Windows-style drive letters parse as single-letter schemes.
	if len(parsed.Scheme) == 1 {
		return nil
	}

	for _, scheme := range v.allowedSchemes {
		if parsed.Scheme == scheme {
			if parsed.Host == "" {
				return apperrors.NewUsageError("source URL must have a host", nil)
			}
			return nil
		}
	}
	return apperrors.NewUsageError("unsupported source scheme: "+parsed.Scheme, nil)
}
