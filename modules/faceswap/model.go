package faceswap

// ProduceResultRequest - /produceResult API 요청
type ProduceResultRequest struct {
	TargetImageURL string `json:"targetImageUrl"`
	SwapImageURL   string `json:"swapImageUrl"`
}

// ProduceResultResponse - /produceResult API 응답
type ProduceResultResponse struct {
	Message        string `json:"message"`
	ResultImageURL string `json:"resultImageUrl"`
}
