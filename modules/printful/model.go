package printful

// RenderTask - 진행 중인 외부 렌더링 작업 1건
// 제출 시 생성, terminal 상태 또는 attempt 소진까지만 유지 (영속화 없음)
type RenderTask struct {
	TaskKey string   `json:"task_key"`
	Status  string   `json:"status"`
	Mockups []Mockup `json:"mockups,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Mockup - 완료된 작업의 렌더링 결과
type Mockup struct {
	MockupURL string `json:"mockup_url"`
}

// Task 상태
const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
	TaskFailed    = "failed"
)

// createTaskRequest - POST /mockup-generator/create-task 요청
type createTaskRequest struct {
	VariantID int          `json:"variant_id"`
	Format    string       `json:"format"`
	ImageURL  string       `json:"image_url"`
	Position  taskPosition `json:"position"`
}

// taskPosition - 상품 템플릿 위 배치 영역
type taskPosition struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// createTaskResponse - 작업 생성 응답
type createTaskResponse struct {
	Code   int        `json:"code"`
	Result RenderTask `json:"result"`
	Error  string     `json:"error,omitempty"`
}

// taskStatusResponse - 작업 상태 조회 응답
type taskStatusResponse struct {
	Code   int        `json:"code"`
	Result RenderTask `json:"result"`
}
