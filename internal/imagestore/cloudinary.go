package imagestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrNotConfigured is returned on the first upload when credentials are missing.
var ErrNotConfigured = errors.New("cloudinary credentials not configured")

// CloudinaryOptions holds the account credentials and upload settings.
type CloudinaryOptions struct {
	CloudName    string
	APIKey       string
	APISecret    string
	Folder       string
	UploadPrefix string
	Timeout      time.Duration
}

// Cloudinary implements Store. The SDK client is built lazily so a missing secret
// surfaces on the first upload instead of at startup.
type Cloudinary struct {
	opts CloudinaryOptions

	mu  sync.Mutex
	cld *cloudinary.Cloudinary
}

// NewCloudinary creates a Cloudinary store. No network traffic happens here.
func NewCloudinary(opts CloudinaryOptions) *Cloudinary {
	return &Cloudinary{opts: opts}
}

func (c *Cloudinary) client() (*cloudinary.Cloudinary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cld != nil {
		return c.cld, nil
	}
	if c.opts.CloudName == "" || c.opts.APIKey == "" || c.opts.APISecret == "" {
		return nil, ErrNotConfigured
	}

	cld, err := cloudinary.NewFromParams(c.opts.CloudName, c.opts.APIKey, c.opts.APISecret)
	if err != nil {
		return nil, fmt.Errorf("creating cloudinary client: %w", err)
	}
	if c.opts.UploadPrefix != "" {
		cld.Config.API.UploadPrefix = c.opts.UploadPrefix
	}
	if c.opts.Timeout > 0 {
		cld.Config.API.Timeout = int64(c.opts.Timeout.Seconds())
	}

	c.cld = cld
	return cld, nil
}

// Upload sends the data URI to the configured folder and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, dataURI string) (*Result, error) {
	cld, err := c.client()
	if err != nil {
		return nil, err
	}

	resp, err := cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder: c.opts.Folder,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	// The SDK reports API-level failures in the response body, not as an error.
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload: empty secure_url in response")
	}

	return &Result{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
	}, nil
}
