package cloudinary

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadFolder is the Cloudinary folder all relayed media lands in.
const uploadFolder = "socialpet"

// Client wraps the initialized Cloudinary uploader
type Client struct {
	cld *cloudinary.Cloudinary
}

// Init initializes the Cloudinary client from explicit credentials. All three
// values are required; the process must not start without them.
func Init(cloudName, apiKey, apiSecret string) (*Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing Cloudinary credentials (cloud name, API key, API secret)")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("error initializing cloudinary client: %w", err)
	}

	log.Println("Cloudinary client initialized successfully!")
	return &Client{cld: cld}, nil
}

// UploadImage relays the media content to Cloudinary and returns its public
// HTTPS URL.
func (c *Client) UploadImage(ctx context.Context, file io.Reader) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       uploadFolder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
