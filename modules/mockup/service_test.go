package mockup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"swapmock-server/modules/common/model"
)

// fetchRecorder - URL별 fetch 횟수 기록 (goroutine-safe)
type fetchRecorder struct {
	mu     sync.Mutex
	counts map[string]int
	fail   map[string]bool
}

func newFetchRecorder() *fetchRecorder {
	return &fetchRecorder{
		counts: make(map[string]int),
		fail:   make(map[string]bool),
	}
}

func (f *fetchRecorder) fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.counts[url]++
	f.mu.Unlock()
	if f.fail[url] {
		return nil, fmt.Errorf("status 404 for %s", url)
	}
	return []byte("bytes:" + url), nil
}

func (f *fetchRecorder) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[url]
}

func newStubService(fetcher *fetchRecorder) *Service {
	return &Service{
		fetchImage: fetcher.fetch,
		uploadImage: func(ctx context.Context, data []byte, contentType, objectPath string) (string, error) {
			return "https://cdn.example.com/" + objectPath, nil
		},
		composite: func(base, overlay []byte, left, top, w, h int) ([]byte, error) {
			return []byte("composited"), nil
		},
		toWebP: func(data []byte, quality float32) ([]byte, error) {
			return data, nil
		},
		maxConcurrent: 2,
	}
}

func TestGenerateMockupsValidation(t *testing.T) {
	s := newStubService(newFetchRecorder())

	if _, err := s.GenerateMockups(context.Background(), "", []model.ProductRequest{{ID: 1, Name: "Mug"}}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty result url: expected ErrInvalidRequest, got %v", err)
	}
	if _, err := s.GenerateMockups(context.Background(), "https://x/result.jpg", nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty products: expected ErrInvalidRequest, got %v", err)
	}
}

func TestGenerateMockupsFetchesResultOnce(t *testing.T) {
	fetcher := newFetchRecorder()
	s := newStubService(fetcher)

	products := []model.ProductRequest{
		{ID: 1, Name: "T-Shirt", BaseImageURL: "https://x/shirt.jpg"},
		{ID: 2, Name: "Mug", BaseImageURL: "https://x/mug.jpg"},
		{ID: 3, Name: "Poster", BaseImageURL: "https://x/poster.jpg"},
	}

	results, err := s.GenerateMockups(context.Background(), "https://x/result.jpg", products)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if got := fetcher.count("https://x/result.jpg"); got != 1 {
		t.Fatalf("result image fetched %d times, want exactly 1", got)
	}
}

func TestGenerateMockupsSkipsUnknownName(t *testing.T) {
	fetcher := newFetchRecorder()
	s := newStubService(fetcher)

	products := []model.ProductRequest{
		{ID: 1, Name: "T-Shirt", BaseImageURL: "https://x/shirt.jpg"},
		{ID: 2, Name: "Unknown", BaseImageURL: "https://x/u.jpg"},
	}

	results, err := s.GenerateMockups(context.Background(), "https://x/result.jpg", products)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ProductID != 1 || results[0].ProductName != "T-Shirt" {
		t.Fatalf("unexpected result: %+v", results[0])
	}

	// 모르는 상품명은 base 이미지를 받으러 가지도 않음
	if got := fetcher.count("https://x/u.jpg"); got != 0 {
		t.Fatalf("unknown product's base image fetched %d times", got)
	}
}

func TestGenerateMockupsSkipsFailedBaseFetch(t *testing.T) {
	fetcher := newFetchRecorder()
	fetcher.fail["https://x/broken.jpg"] = true
	s := newStubService(fetcher)

	products := []model.ProductRequest{
		{ID: 1, Name: "T-Shirt", BaseImageURL: "https://x/broken.jpg"},
		{ID: 2, Name: "Mug", BaseImageURL: "https://x/mug.jpg"},
	}

	results, err := s.GenerateMockups(context.Background(), "https://x/result.jpg", products)
	if err != nil {
		t.Fatalf("batch must not fail on per-product fetch error: %v", err)
	}

	if len(results) != 1 || results[0].ProductID != 2 {
		t.Fatalf("expected only product 2 to succeed, got %+v", results)
	}
}

func TestGenerateMockupsSkipsFailedUpload(t *testing.T) {
	fetcher := newFetchRecorder()
	s := newStubService(fetcher)
	s.uploadImage = func(ctx context.Context, data []byte, contentType, objectPath string) (string, error) {
		return "", errors.New("storage down")
	}

	results, err := s.GenerateMockups(context.Background(), "https://x/result.jpg",
		[]model.ProductRequest{{ID: 1, Name: "Mug", BaseImageURL: "https://x/mug.jpg"}})
	if err != nil {
		t.Fatalf("batch must not fail on upload error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result set, got %+v", results)
	}
}

func TestGenerateMockupsUniqueObjectPaths(t *testing.T) {
	fetcher := newFetchRecorder()
	s := newStubService(fetcher)

	var mu sync.Mutex
	paths := make(map[string]bool)
	s.uploadImage = func(ctx context.Context, data []byte, contentType, objectPath string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if paths[objectPath] {
			t.Errorf("duplicate object path: %s", objectPath)
		}
		paths[objectPath] = true
		if !strings.HasPrefix(objectPath, "mockups/") || !strings.HasSuffix(objectPath, ".webp") {
			t.Errorf("unexpected object path shape: %s", objectPath)
		}
		return "https://cdn.example.com/" + objectPath, nil
	}

	products := []model.ProductRequest{
		{ID: 1, Name: "T-Shirt", BaseImageURL: "https://x/shirt.jpg"},
		{ID: 2, Name: "T-Shirt", BaseImageURL: "https://x/shirt.jpg"},
	}

	if _, err := s.GenerateMockups(context.Background(), "https://x/result.jpg", products); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(paths))
	}
}

func TestGenerateMockupsReportsProgress(t *testing.T) {
	fetcher := newFetchRecorder()
	s := newStubService(fetcher)

	var mu sync.Mutex
	var seen []int
	s.OnProgress = func(completed, total int) {
		mu.Lock()
		seen = append(seen, completed)
		mu.Unlock()
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
	}

	products := []model.ProductRequest{
		{ID: 1, Name: "T-Shirt", BaseImageURL: "https://x/a.jpg"},
		{ID: 2, Name: "Unknown", BaseImageURL: "https://x/b.jpg"},
		{ID: 3, Name: "Mug", BaseImageURL: "https://x/c.jpg"},
	}

	if _, err := s.GenerateMockups(context.Background(), "https://x/result.jpg", products); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// 실패(skip)한 상품도 진행률에는 포함
	if len(seen) != 3 {
		t.Fatalf("expected 3 progress callbacks, got %d", len(seen))
	}
}
