package upload

// UploadResponse - POST /upload 응답
type UploadResponse struct {
	Message        string `json:"message"`
	TargetImageURL string `json:"targetImageUrl"`
	SwapImageURL   string `json:"swapImageUrl"`
}

// UploadSwapResponse - POST /uploadSwap 응답
type UploadSwapResponse struct {
	Message      string `json:"message"`
	SwapImageURL string `json:"swapImageUrl"`
}

// UploadResultRequest - POST /uploadResult 요청
type UploadResultRequest struct {
	ResultURL string `json:"resultUrl"`
}

// UploadResultResponse - POST /uploadResult 응답
type UploadResultResponse struct {
	Message        string `json:"message"`
	ResultImageURL string `json:"resultImageUrl"`
}
