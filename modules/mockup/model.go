package mockup

import "swapmock-server/modules/common/model"

// GenerateMockupsRequest - /generateMockups API 요청
type GenerateMockupsRequest struct {
	ResultImageURL string                 `json:"resultImageUrl"`
	Products       []model.ProductRequest `json:"products"`
}

// GenerateMockupsResponse - /generateMockups API 응답
// MockupURLs는 성공한 상품만 담음 (빈 배열 가능)
type GenerateMockupsResponse struct {
	Message    string               `json:"message"`
	MockupURLs []model.MockupResult `json:"mockupUrls"`
}
