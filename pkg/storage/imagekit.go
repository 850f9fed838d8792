package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageKitStorage uploads through the ImageKit HTTP API. The returned
// UploadResponse.Key is the ImageKit file id, which is what Delete expects.
type ImageKitStorage struct {
	publicKey   string
	privateKey  string
	urlEndpoint string
	uploadURL   string
	httpClient  *http.Client
}

// AuthParams are the signed parameters an ImageKit browser client needs to
// upload directly: signature = HMAC-SHA1(token + expire, private key).
type AuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

type imageKitUploadResponse struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	FilePath string `json:"filePath"`
}

func NewImageKitStorage(publicKey, privateKey, urlEndpoint, uploadURL string) *ImageKitStorage {
	return &ImageKitStorage{
		publicKey:   publicKey,
		privateKey:  privateKey,
		urlEndpoint: urlEndpoint,
		uploadURL:   uploadURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (ik *ImageKitStorage) Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error) {
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", request.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, request.Reader); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.WriteField("fileName", request.Key); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.WriteField("useUniqueFileName", "true"); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ik.uploadURL, strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.SetBasicAuth(ik.privateKey, "")

	resp, err := ik.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagekit upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("imagekit upload failed with status %d: %s", resp.StatusCode, string(data))
	}

	var uploaded imageKitUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("failed to decode imagekit response: %w", err)
	}

	return &UploadResponse{
		Key:      uploaded.FileID,
		URL:      uploaded.URL,
		Size:     uploaded.Size,
		Location: uploaded.FilePath,
	}, nil
}

func (ik *ImageKitStorage) Delete(ctx context.Context, key string) error {
	url := "https://api.imagekit.io/v1/files/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.SetBasicAuth(ik.privateKey, "")

	resp, err := ik.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("imagekit delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("imagekit delete failed with status %d", resp.StatusCode)
	}
	return nil
}

func (ik *ImageKitStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return strings.TrimSuffix(ik.urlEndpoint, "/") + "/" + strings.TrimPrefix(key, "/"), nil
}

func (ik *ImageKitStorage) FileExists(ctx context.Context, key string) (bool, error) {
	url := "https://api.imagekit.io/v1/files/" + key + "/details"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build details request: %w", err)
	}
	req.SetBasicAuth(ik.privateKey, "")

	resp, err := ik.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("imagekit details failed: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

// ClientAuthParams issues signed parameters for direct browser uploads.
func (ik *ImageKitStorage) ClientAuthParams(ttl time.Duration) *AuthParams {
	token := uuid.New().String()
	expire := time.Now().Add(ttl).Unix()
	return &AuthParams{
		Token:     token,
		Expire:    expire,
		Signature: SignUploadToken(token, expire, ik.privateKey),
	}
}

// SignUploadToken computes the ImageKit client-auth signature.
func SignUploadToken(token string, expire int64, privateKey string) string {
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(fmt.Sprintf("%s%d", token, expire)))
	return hex.EncodeToString(mac.Sum(nil))
}
