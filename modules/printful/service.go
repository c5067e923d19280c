package printful

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"swapmock-server/modules/common/config"
	"swapmock-server/modules/common/model"
	"swapmock-server/modules/mockup"
)

// ErrProviderTask - 외부 렌더링 작업이 error 상태로 종료됨
var ErrProviderTask = errors.New("provider task failed")

// ErrProviderTimeout - attempt 소진까지 terminal 상태 미도달
var ErrProviderTimeout = errors.New("provider task timed out")

// Service - Printful Mockup Generator API 클라이언트
type Service struct {
	apiBase    string
	apiKey     string
	httpClient *http.Client

	// 2초 간격 x 10회 = 상품당 최대 ~20초 대기
	pollInterval  time.Duration
	maxAttempts   int
	maxConcurrent int
}

// NewService - Service 생성
func NewService() *Service {
	cfg := config.GetConfig()
	if cfg.PrintfulAPIKey == "" {
		log.Println("⚠️  [Printful] PRINTFUL_API_KEY not set, delegated mockups will fail")
	}

	return &Service{
		apiBase: cfg.PrintfulAPIBase,
		apiKey:  cfg.PrintfulAPIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		pollInterval:  2 * time.Second,
		maxAttempts:   10,
		maxConcurrent: 4,
	}
}

// GenerateMockups - 상품마다 submit+poll을 동시 실행, 성공분만 수집
// /generateMockups의 로컬 합성과 동일한 외부 계약 (delegated 변형)
func (s *Service) GenerateMockups(ctx context.Context, resultImageURL string, products []model.ProductRequest) []model.MockupResult {
	log.Printf("🚀 [Printful] Generating mockups for %d products", len(products))

	var wg sync.WaitGroup
	slots := make([]*model.MockupResult, len(products))
	semaphore := make(chan struct{}, s.maxConcurrent)

	for i, product := range products {
		wg.Add(1)
		go func(idx int, p model.ProductRequest) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			mockupURL, err := s.renderProduct(ctx, p.Name, resultImageURL)
			if err != nil {
				// 상품 단위 실패는 batch를 중단시키지 않음
				log.Printf("⚠️  [Printful] Skipping product %v: %v", p.ID, err)
				return
			}

			slots[idx] = &model.MockupResult{
				ProductID:      p.ID,
				ProductName:    p.Name,
				MockupImageURL: mockupURL,
			}
		}(i, product)
	}

	wg.Wait()

	results := make([]model.MockupResult, 0, len(products))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}

	log.Printf("✅ [Printful] %d/%d products succeeded", len(results), len(products))
	return results
}

// renderProduct - 상품 1개의 submit → poll 시퀀스
func (s *Service) renderProduct(ctx context.Context, name, imageURL string) (string, error) {
	variantID, ok := LookupVariant(name)
	if !ok {
		return "", fmt.Errorf("no variant mapping for %q", name)
	}

	taskKey, err := s.CreateMockupTask(ctx, variantID, name, imageURL)
	if err != nil {
		return "", err
	}

	task, err := s.WaitForCompletion(ctx, taskKey)
	if err != nil {
		return "", err
	}

	if len(task.Mockups) == 0 {
		return "", fmt.Errorf("%w: task %s completed without mockups", ErrProviderTask, taskKey)
	}
	return task.Mockups[0].MockupURL, nil
}

// CreateMockupTask - 렌더링 작업 제출, task key 반환
func (s *Service) CreateMockupTask(ctx context.Context, variantID int, name, imageURL string) (string, error) {
	position := taskPosition{}
	if p, ok := mockup.LookupPlacement(name); ok {
		position = taskPosition{Left: p.Left, Top: p.Top, Width: p.Width, Height: p.Height}
	}

	reqData := createTaskRequest{
		VariantID: variantID,
		Format:    "png",
		ImageURL:  imageURL,
		Position:  position,
	}

	reqBody, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		s.apiBase+"/mockup-generator/create-task", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	log.Printf("🚀 [Printful] Creating mockup task (variant: %d)...", variantID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result createTaskResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if result.Result.TaskKey == "" {
		return "", fmt.Errorf("%w: empty task key: %s", ErrProviderTask, result.Error)
	}

	log.Printf("✅ [Printful] Task created: %s", result.Result.TaskKey)
	return result.Result.TaskKey, nil
}

// GetTaskStatus - 작업 상태 조회
func (s *Service) GetTaskStatus(ctx context.Context, taskKey string) (*RenderTask, error) {
	statusURL := fmt.Sprintf("%s/mockup-generator/task?task_key=%s", s.apiBase, taskKey)

	req, err := http.NewRequestWithContext(ctx, "GET", statusURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result taskStatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result.Result, nil
}

// WaitForCompletion - terminal 상태 도달까지 고정 간격 폴링
// submitted → polling → {completed, failed, timed-out}
func (s *Service) WaitForCompletion(ctx context.Context, taskKey string) (*RenderTask, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}

		task, err := s.GetTaskStatus(ctx, taskKey)
		if err != nil {
			log.Printf("⚠️  [Printful] Attempt %d: failed to get status: %v", attempt, err)
			continue
		}

		switch task.Status {
		case TaskCompleted:
			log.Printf("✅ [Printful] Task %s completed", taskKey)
			return task, nil
		case TaskFailed:
			return nil, fmt.Errorf("%w: %s", ErrProviderTask, task.Error)
		case TaskPending:
			log.Printf("📊 [Printful] Attempt %d: task %s still pending", attempt, taskKey)
		default:
			log.Printf("⚠️  [Printful] Unknown status %q for task %s", task.Status, taskKey)
		}
	}

	return nil, fmt.Errorf("%w: task %s after %d attempts", ErrProviderTimeout, taskKey, s.maxAttempts)
}
