package faceswap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swapmock-server/modules/common/storage"
)

func postProduceResult(t *testing.T, h *FaceSwapHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/produceResult", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ProduceResult(rec, req)
	return rec
}

func TestProduceResultUnconfiguredIs503(t *testing.T) {
	// GEMINI_API_KEY 없이 기동된 서버
	h := &FaceSwapHandler{service: nil}

	body := `{"targetImageUrl": "https://x/t.jpg", "swapImageUrl": "https://x/s.jpg"}`
	if rec := postProduceResult(t, h, body); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestProduceResultRejectsMissingFields(t *testing.T) {
	// 필드 검증은 서비스 호출 전에 끝남
	h := &FaceSwapHandler{service: &Service{}}

	cases := []string{
		`{}`,
		`{"targetImageUrl": "https://x/t.jpg"}`,
		`{"swapImageUrl": "https://x/s.jpg"}`,
		`not json`,
	}
	for _, body := range cases {
		if rec := postProduceResult(t, h, body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestProduceResultFetchFailureIs400(t *testing.T) {
	h := &FaceSwapHandler{
		service: &Service{
			fetchImage: func(ctx context.Context, url string) ([]byte, error) {
				return nil, fmt.Errorf("%w: status 404", storage.ErrFetch)
			},
		},
	}

	body := `{"targetImageUrl": "https://x/gone.jpg", "swapImageUrl": "https://x/s.jpg"}`
	if rec := postProduceResult(t, h, body); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
