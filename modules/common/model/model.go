package model

import "time"

// ProductRequest - mockup 1개를 생성할 상품 descriptor
// ID/Name은 조회 키 외에는 불투명하게 취급, 그대로 응답에 돌려줌
type ProductRequest struct {
	ID           interface{} `json:"id"`
	Name         string      `json:"name"`
	BaseImageURL string      `json:"baseImageUrl,omitempty"`
}

// MockupResult - 성공한 상품의 결과 레코드 (실패한 상품은 생략됨)
type MockupResult struct {
	ProductID      interface{} `json:"productId"`
	ProductName    string      `json:"productName"`
	MockupImageURL string      `json:"mockupImageUrl"`
}

// MockupJob - mockup_jobs 테이블 구조 (비동기 큐 경로 전용)
type MockupJob struct {
	JobID          string           `json:"job_id"`
	JobStatus      string           `json:"job_status"`
	Engine         string           `json:"engine"` // "local" | "printful"
	ResultImageURL string           `json:"result_image_url"`
	Products       []ProductRequest `json:"products"`
	MockupResults  []MockupResult   `json:"mockup_results"`
	CompletedCount int              `json:"completed_count"`
	TotalCount     int              `json:"total_count"`
	ErrorMessage   *string          `json:"error_message"`
	CreatedAt      time.Time        `json:"created_at"`
	StartedAt      *time.Time       `json:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	EngineLocal    = "local"
	EnginePrintful = "printful"
)
