package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"swapmock-server/modules/common/storage"
)

func newStubUploadService() (*Service, *[]string) {
	var paths []string
	s := &Service{
		fetchImage: func(ctx context.Context, url string) ([]byte, error) {
			return []byte("remote image"), nil
		},
		uploadImage: func(ctx context.Context, data []byte, contentType, objectPath string) (string, error) {
			paths = append(paths, objectPath)
			return "https://cdn.example.com/" + objectPath, nil
		},
		normalize: func(data []byte, quality float32) ([]byte, error) {
			return data, nil
		},
	}
	return s, &paths
}

func TestSaveUploadedImageRejectsMimeType(t *testing.T) {
	s, paths := newStubUploadService()

	for _, mime := range []string{"image/webp", "text/plain", "application/pdf", ""} {
		_, err := s.SaveUploadedImage(context.Background(), []byte("data"), mime, "uploads")
		if !errors.Is(err, ErrUnsupportedMediaType) {
			t.Errorf("mime %q: expected ErrUnsupportedMediaType, got %v", mime, err)
		}
	}

	// 거부된 업로드는 storage에 닿으면 안 됨
	if len(*paths) != 0 {
		t.Fatalf("rejected uploads reached storage: %v", *paths)
	}
}

func TestSaveUploadedImageRejectsOversize(t *testing.T) {
	s, paths := newStubUploadService()

	big := bytes.Repeat([]byte{0xAB}, MaxFileSize+1)
	if _, err := s.SaveUploadedImage(context.Background(), big, "image/png", "uploads"); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if len(*paths) != 0 {
		t.Fatalf("oversize upload reached storage: %v", *paths)
	}
}

func TestSaveUploadedImageUniqueIdentifiers(t *testing.T) {
	s, paths := newStubUploadService()

	// 동일한 바이너리를 두 번 올려도 식별자는 충돌하지 않음
	data := []byte("identical bytes")
	first, err := s.SaveUploadedImage(context.Background(), data, "image/jpeg", "uploads")
	if err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	second, err := s.SaveUploadedImage(context.Background(), data, "image/jpeg", "uploads")
	if err != nil {
		t.Fatalf("second upload failed: %v", err)
	}

	if first == second {
		t.Fatalf("identical uploads collided on URL: %s", first)
	}
	if len(*paths) != 2 || (*paths)[0] == (*paths)[1] {
		t.Fatalf("identifiers not unique: %v", *paths)
	}
	for _, p := range *paths {
		if !strings.HasPrefix(p, "uploads/") || !strings.HasSuffix(p, ".webp") {
			t.Errorf("unexpected object path shape: %s", p)
		}
	}
}

func TestSaveRemoteImagePropagatesFetchError(t *testing.T) {
	s, _ := newStubUploadService()
	s.fetchImage = func(ctx context.Context, url string) ([]byte, error) {
		return nil, fmt.Errorf("%w: status 404", storage.ErrFetch)
	}

	if _, err := s.SaveRemoteImage(context.Background(), "https://x/gone.jpg", "results"); !errors.Is(err, storage.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}
