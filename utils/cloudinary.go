package utils

import (
	"context"
	"fmt"
	"path"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/meinhoongagan/kure-api/config"
)

// UploadResult is what the catalog stores for an uploaded image.
type UploadResult struct {
	URL      string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

// Uploader puts images into the configured Cloudinary folder.
type Uploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewUploader(cfg config.CloudinaryConfig) (*Uploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Uploader{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores file (a path, URL, io.Reader or multipart file) under
// <root folder>/<subfolder> with a random public id.
func (u *Uploader) Upload(ctx context.Context, file interface{}, subfolder string) (UploadResult, error) {
	folder := u.folder
	if subfolder != "" {
		folder = path.Join(u.folder, subfolder)
	}

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("upload to cloudinary: %s", resp.Error.Message)
	}
	return UploadResult{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}
