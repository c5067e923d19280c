package mockup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"swapmock-server/modules/common/model"
	"swapmock-server/modules/common/storage"
	"swapmock-server/modules/common/utils"
)

// ErrInvalidRequest - resultImageUrl 누락 또는 products 비어있음
var ErrInvalidRequest = errors.New("invalid mockup request")

// 업로드 WebP 품질
const mockupWebPQuality = 90.0

// Service - 로컬 합성 방식 mockup orchestrator
type Service struct {
	fetchImage  func(ctx context.Context, url string) ([]byte, error)
	uploadImage func(ctx context.Context, data []byte, contentType, objectPath string) (string, error)
	composite   func(baseData, overlayData []byte, left, top, width, height int) ([]byte, error)
	toWebP      func(pngData []byte, quality float32) ([]byte, error)

	// 동시에 처리할 상품 파이프라인 수 제한
	maxConcurrent int

	// OnProgress - 상품 1개 완료(성공/실패)마다 호출 (worker가 진행률 전파에 사용)
	OnProgress func(completed, total int)
}

// NewService - Service 생성
func NewService() *Service {
	storageClient := storage.NewClient()

	return &Service{
		fetchImage:    storageClient.FetchImage,
		uploadImage:   storageClient.UploadImage,
		composite:     utils.CompositeImages,
		toWebP:        utils.ConvertPNGToWebP,
		maxConcurrent: 4,
	}
}

// GenerateMockups - result 이미지 1장을 모든 상품에 합성
// 상품 단위 실패는 해당 상품만 건너뜀 - batch 전체는 절대 실패하지 않음
func (s *Service) GenerateMockups(ctx context.Context, resultImageURL string, products []model.ProductRequest) ([]model.MockupResult, error) {
	if resultImageURL == "" || len(products) == 0 {
		return nil, fmt.Errorf("%w: resultImageUrl and products are required", ErrInvalidRequest)
	}

	// result 이미지는 1회만 다운로드해서 전체 상품이 공유
	resultData, err := s.fetchImage(ctx, resultImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch result image: %w", err)
	}

	log.Printf("🚀 Generating mockups for %d products (max %d concurrent)", len(products), s.maxConcurrent)

	var wg sync.WaitGroup
	var progressMutex sync.Mutex
	completedCount := 0

	// 각 goroutine이 자기 슬롯에만 쓰므로 결과 수집에 lock 불필요
	slots := make([]*model.MockupResult, len(products))
	semaphore := make(chan struct{}, s.maxConcurrent)

	for i, product := range products {
		wg.Add(1)
		go func(idx int, p model.ProductRequest) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if result := s.processProduct(ctx, p, resultData); result != nil {
				slots[idx] = result
			}

			progressMutex.Lock()
			completedCount++
			done := completedCount
			progressMutex.Unlock()

			if s.OnProgress != nil {
				s.OnProgress(done, len(products))
			}
		}(i, product)
	}

	wg.Wait()

	// 실패한 상품(nil 슬롯) 필터링
	results := make([]model.MockupResult, 0, len(products))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	log.Printf("✅ Mockup generation finished: %d/%d products succeeded", len(results), len(products))
	return results, nil
}

// processProduct - 상품 1개의 fetch → composite → upload 파이프라인
// 어떤 단계든 실패하면 nil 반환 (로그만 남기고 batch는 계속)
func (s *Service) processProduct(ctx context.Context, p model.ProductRequest, resultData []byte) *model.MockupResult {
	placement, ok := LookupPlacement(p.Name)
	if !ok {
		log.Printf("⚠️  Skipping product %v: unknown name %q", p.ID, p.Name)
		return nil
	}

	baseData, err := s.fetchImage(ctx, p.BaseImageURL)
	if err != nil {
		log.Printf("⚠️  Skipping product %v: base image fetch failed: %v", p.ID, err)
		return nil
	}

	composited, err := s.composite(baseData, resultData,
		placement.Left, placement.Top, placement.Width, placement.Height)
	if err != nil {
		log.Printf("⚠️  Skipping product %v: composite failed: %v", p.ID, err)
		return nil
	}

	webpData, err := s.toWebP(composited, mockupWebPQuality)
	if err != nil {
		log.Printf("⚠️  Skipping product %v: webp conversion failed: %v", p.ID, err)
		return nil
	}

	objectPath := fmt.Sprintf("mockups/%s.webp", uuid.New().String())
	mockupURL, err := s.uploadImage(ctx, webpData, "image/webp", objectPath)
	if err != nil {
		log.Printf("⚠️  Skipping product %v: upload failed: %v", p.ID, err)
		return nil
	}

	return &model.MockupResult{
		ProductID:      p.ID,
		ProductName:    p.Name,
		MockupImageURL: mockupURL,
	}
}
