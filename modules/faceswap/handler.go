package faceswap

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"swapmock-server/modules/common/storage"
	"swapmock-server/modules/common/utils"
)

type FaceSwapHandler struct {
	service *Service
}

func NewFaceSwapHandler() *FaceSwapHandler {
	return &FaceSwapHandler{
		service: NewService(),
	}
}

// RegisterRoutes - 라우터에 FaceSwap 엔드포인트 등록
func (h *FaceSwapHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/produceResult", h.ProduceResult).Methods("POST", "OPTIONS")
	log.Println("✅ FaceSwap routes registered: /produceResult")
}

// ProduceResult - POST /produceResult
func (h *FaceSwapHandler) ProduceResult(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.service == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Face swap is not configured",
		})
		return
	}

	var req ProduceResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Invalid request format",
		})
		return
	}

	if req.TargetImageURL == "" || req.SwapImageURL == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Missing required fields: targetImageUrl, swapImageUrl",
		})
		return
	}

	resultURL, err := h.service.SwapFaces(r.Context(), req.TargetImageURL, req.SwapImageURL)
	if err != nil {
		// 입력 이미지 문제는 400, 나머지는 500
		if errors.Is(err, storage.ErrFetch) || errors.Is(err, utils.ErrDecode) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Failed to fetch input images",
			})
			return
		}
		log.Printf("❌ Face swap failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Failed to produce result image",
		})
		return
	}

	json.NewEncoder(w).Encode(ProduceResultResponse{
		Message:        "Result image produced",
		ResultImageURL: resultURL,
	})
}
