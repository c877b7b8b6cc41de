package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
)

// New builds a client from the configured cloudinary URL.
func New(cloudinaryURL string) (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromURL(cloudinaryURL)
}
