package upload

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"swapmock-server/modules/common/storage"
	"swapmock-server/modules/common/utils"
)

// ErrUnsupportedMediaType - 허용 목록 밖의 mime type
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ErrPayloadTooLarge - 파일 크기 제한 초과
var ErrPayloadTooLarge = errors.New("file too large")

// MaxFileSize - 파일당 10MB 제한
const MaxFileSize = 10 << 20

// 저장 WebP 품질
const uploadWebPQuality = 90.0

// allowedMimeTypes - 업로드 허용 mime type
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Service - 업로드 이미지 저장 (WebP 정규화 후 Supabase Storage)
type Service struct {
	fetchImage  func(ctx context.Context, url string) ([]byte, error)
	uploadImage func(ctx context.Context, data []byte, contentType, objectPath string) (string, error)
	normalize   func(data []byte, quality float32) ([]byte, error)
}

// NewService - Service 생성
func NewService() *Service {
	storageClient := storage.NewClient()

	return &Service{
		fetchImage:  storageClient.FetchImage,
		uploadImage: storageClient.UploadImage,
		normalize:   utils.NormalizeToWebP,
	}
}

// SaveUploadedImage - multipart로 받은 이미지를 검증/정규화 후 저장
// 호출마다 새 uuid 식별자 - 같은 바이너리를 두 번 올려도 충돌하지 않음
func (s *Service) SaveUploadedImage(ctx context.Context, data []byte, mimeType, folder string) (string, error) {
	if !allowedMimeTypes[mimeType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mimeType)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	webpData, err := s.normalize(data, uploadWebPQuality)
	if err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("%s/%s.webp", folder, uuid.New().String())
	url, err := s.uploadImage(ctx, webpData, "image/webp", objectPath)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Uploaded image stored: %s", url)
	return url, nil
}

// SaveRemoteImage - 외부 URL의 이미지를 받아 정규화 후 재호스팅
func (s *Service) SaveRemoteImage(ctx context.Context, sourceURL, folder string) (string, error) {
	data, err := s.fetchImage(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	webpData, err := s.normalize(data, uploadWebPQuality)
	if err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("%s/%s.webp", folder, uuid.New().String())
	return s.uploadImage(ctx, webpData, "image/webp", objectPath)
}
