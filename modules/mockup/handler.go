package mockup

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type MockupHandler struct {
	service *Service
}

func NewMockupHandler() *MockupHandler {
	return &MockupHandler{
		service: NewService(),
	}
}

// RegisterRoutes - 라우터에 Mockup 엔드포인트 등록
func (h *MockupHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/generateMockups", h.GenerateMockups).Methods("POST", "OPTIONS")
	log.Println("✅ Mockup routes registered: /generateMockups")
}

// GenerateMockups - POST /generateMockups
// 구조 검증만 통과하면 항상 200 - 상품 단위 실패는 결과에서 빠질 뿐
func (h *MockupHandler) GenerateMockups(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// OPTIONS 요청 처리 (CORS preflight)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req GenerateMockupsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid request format",
		})
		return
	}

	if req.ResultImageURL == "" || len(req.Products) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Missing required fields: resultImageUrl, products",
		})
		return
	}

	results, err := h.service.GenerateMockups(r.Context(), req.ResultImageURL, req.Products)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error": err.Error(),
			})
			return
		}
		log.Printf("❌ Mockup generation failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Failed to generate mockups",
		})
		return
	}

	json.NewEncoder(w).Encode(GenerateMockupsResponse{
		Message:    "Mockups generated",
		MockupURLs: results,
	})
}
