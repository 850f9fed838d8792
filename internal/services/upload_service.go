package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"gopilot/internal/utils"
	"gopilot/pkg/storage"
)

type UploadService interface {
	// UploadDocument stores a verification document and returns its URL.
	UploadDocument(ctx context.Context, header *multipart.FileHeader, keyPrefix string) (string, error)

	// UploadProfilePhoto resizes the image to thumbnail bounds before
	// storing it.
	UploadProfilePhoto(ctx context.Context, header *multipart.FileHeader, keyPrefix string) (string, error)
}

type uploadService struct {
	provider storage.StorageProvider
}

func NewUploadService(provider storage.StorageProvider) UploadService {
	return &uploadService{provider: provider}
}

func (s *uploadService) UploadDocument(ctx context.Context, header *multipart.FileHeader, keyPrefix string) (string, error) {
	if err := utils.ValidateUpload(header, utils.AllowedDocumentTypes, utils.MaxDocumentSize); err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	response, err := s.provider.Upload(ctx, &storage.UploadRequest{
		Key:         utils.GenerateFileKey(keyPrefix, header.Filename),
		Reader:      file,
		ContentType: utils.ContentTypeForFile(header.Filename),
		Size:        header.Size,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return response.URL, nil
}

func (s *uploadService) UploadProfilePhoto(ctx context.Context, header *multipart.FileHeader, keyPrefix string) (string, error) {
	if err := utils.ValidateUpload(header, utils.AllowedImageTypes, utils.MaxImageSize); err != nil {
		return "", err
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	buf, err := utils.ResizeImageToBounds(file, header.Filename, utils.ProfilePhotoMaxWidth, utils.ProfilePhotoMaxHeight)
	if err != nil {
		return "", err
	}

	response, err := s.provider.Upload(ctx, &storage.UploadRequest{
		Key:         utils.GenerateFileKey(keyPrefix, header.Filename),
		Reader:      buf,
		ContentType: utils.ContentTypeForFile(header.Filename),
		Size:        int64(buf.Len()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}

	return response.URL, nil
}
