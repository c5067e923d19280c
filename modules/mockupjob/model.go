package mockupjob

import "swapmock-server/modules/common/model"

// EnqueueRequest - /enqueueMockups API 요청
type EnqueueRequest struct {
	ResultImageURL string                 `json:"resultImageUrl"`
	Products       []model.ProductRequest `json:"products"`
	Engine         string                 `json:"engine,omitempty"` // "local"(기본) | "printful"
}

// EnqueueResponse - /enqueueMockups API 응답
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	JobID         string `json:"jobId,omitempty"`
	Queue         string `json:"queue,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}

// StatusResponse - /mockupStatus/{jobId} API 응답
type StatusResponse struct {
	JobID      string               `json:"jobId"`
	Status     string               `json:"status"`
	Engine     string               `json:"engine"`
	Completed  int                  `json:"completed"`
	Total      int                  `json:"total"`
	MockupURLs []model.MockupResult `json:"mockupUrls"`
	Error      *string              `json:"error,omitempty"`
}
