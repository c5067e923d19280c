package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"swapmock-server/modules/common/config"
)

// ErrFetch - 원격 이미지 다운로드 실패 (non-2xx 포함)
var ErrFetch = errors.New("remote fetch failed")

// ErrStorage - Supabase Storage 업로드 실패
var ErrStorage = errors.New("storage upload failed")

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewClient - Storage 클라이언트 생성
func NewClient() *Client {
	return &Client{
		cfg: config.GetConfig(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// FetchImage - 임의 URL에서 이미지 바이너리 다운로드
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %s: %v", ErrFetch, url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ HTTP GET failed: %s (%v)", url, err)
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("❌ Download failed - Status: %d, URL: %s", resp.StatusCode, url)
		return nil, fmt.Errorf("%w: status %d for %s", ErrFetch, resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}

	log.Printf("📥 Image downloaded: %s (%d bytes)", url, len(data))
	return data, nil
}

// UploadImage - Supabase Storage에 업로드하고 public URL 반환
// objectPath 예시: "mockups/3f2a...c1.webp" (호출자가 uuid로 유일성 보장)
func (c *Client) UploadImage(ctx context.Context, data []byte, contentType, objectPath string) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		c.cfg.SupabaseURL, c.cfg.SupabaseStorageBucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrStorage, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.SupabaseServiceKey)
	req.Header.Set("Content-Type", contentType)
	// 동일 경로 재업로드는 덮어쓰기
	req.Header.Set("x-upsert", "true")

	log.Printf("📤 Uploading image to storage: %s (%d bytes)", objectPath, len(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrStorage, resp.StatusCode, string(body))
	}

	publicURL := c.cfg.SupabaseStorageBaseURL + objectPath
	log.Printf("✅ Image uploaded successfully: %s", publicURL)
	return publicURL, nil
}
