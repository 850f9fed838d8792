package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func IsAllowedFileType(filename string, allowedTypes []string) bool {
	ext := strings.TrimPrefix(GetFileExtension(filename), ".")

	for _, allowedType := range allowedTypes {
		if ext == allowedType {
			return true
		}
	}

	return false
}

func IsImageFile(filename string) bool {
	return IsAllowedFileType(filename, AllowedImageTypes)
}

func IsDocumentFile(filename string) bool {
	return IsAllowedFileType(filename, AllowedDocumentTypes)
}

// ValidateUpload checks extension and declared size of a multipart upload.
func ValidateUpload(header *multipart.FileHeader, allowedTypes []string, maxSize int64) error {
	if header == nil {
		return fmt.Errorf("missing file")
	}
	if !IsAllowedFileType(header.Filename, allowedTypes) {
		return fmt.Errorf("file type not allowed: %s", GetFileExtension(header.Filename))
	}
	if header.Size > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", header.Size, maxSize)
	}
	return nil
}

// GenerateFileKey builds a unique storage key under the given prefix,
// keeping the original extension.
func GenerateFileKey(prefix, originalFilename string) string {
	ext := GetFileExtension(originalFilename)
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)
}

func ContentTypeForFile(filename string) string {
	switch strings.TrimPrefix(GetFileExtension(filename), ".") {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ResizeImageToBounds decodes an uploaded image and scales it down so it
// fits within maxWidth x maxHeight, preserving aspect ratio. Images already
// within bounds are re-encoded unchanged.
func ResizeImageToBounds(file multipart.File, filename string, maxWidth, maxHeight uint) (*bytes.Buffer, error) {
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	img, err := decodeImage(file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) > maxWidth || uint(bounds.Dy()) > maxHeight {
		img = resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
	}

	buf := &bytes.Buffer{}
	if err := encodeImage(buf, img, filename); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf, nil
}

func decodeImage(file multipart.File, filename string) (image.Image, error) {
	switch strings.TrimPrefix(GetFileExtension(filename), ".") {
	case "png":
		return png.Decode(file)
	case "jpg", "jpeg":
		return jpeg.Decode(file)
	default:
		img, _, err := image.Decode(file)
		return img, err
	}
}

func encodeImage(buf *bytes.Buffer, img image.Image, filename string) error {
	switch strings.TrimPrefix(GetFileExtension(filename), ".") {
	case "png":
		return png.Encode(buf, img)
	default:
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: 85})
	}
}
