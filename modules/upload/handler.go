package upload

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"swapmock-server/modules/common/storage"
	"swapmock-server/modules/common/utils"
)

// multipart 폼 전체 메모리 한도 (파일당 한도는 MaxFileSize)
const maxFormMemory = 32 << 20

type UploadHandler struct {
	service *Service
}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{
		service: NewService(),
	}
}

// RegisterRoutes - 라우터에 Upload 엔드포인트 등록
func (h *UploadHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/upload", h.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/uploadSwap", h.UploadSwap).Methods("POST", "OPTIONS")
	r.HandleFunc("/uploadResult", h.UploadResult).Methods("POST", "OPTIONS")
	log.Println("✅ Upload routes registered: /upload, /uploadSwap, /uploadResult")
}

// Upload - POST /upload (multipart: targetImage + swapImage)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	targetData, targetType, err := readFormImage(r, "targetImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "targetImage is required")
		return
	}

	swapData, swapType, err := readFormImage(r, "swapImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "swapImage is required")
		return
	}

	targetURL, err := h.service.SaveUploadedImage(r.Context(), targetData, targetType, "uploads")
	if err != nil {
		writeUploadError(w, err)
		return
	}

	swapURL, err := h.service.SaveUploadedImage(r.Context(), swapData, swapType, "uploads")
	if err != nil {
		writeUploadError(w, err)
		return
	}

	json.NewEncoder(w).Encode(UploadResponse{
		Message:        "Images uploaded",
		TargetImageURL: targetURL,
		SwapImageURL:   swapURL,
	})
}

// UploadSwap - POST /uploadSwap (multipart: swapImage)
func (h *UploadHandler) UploadSwap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	swapData, swapType, err := readFormImage(r, "swapImage")
	if err != nil {
		writeError(w, http.StatusBadRequest, "swapImage is required")
		return
	}

	swapURL, err := h.service.SaveUploadedImage(r.Context(), swapData, swapType, "uploads")
	if err != nil {
		writeUploadError(w, err)
		return
	}

	json.NewEncoder(w).Encode(UploadSwapResponse{
		Message:      "Swap image uploaded",
		SwapImageURL: swapURL,
	})
}

// UploadResult - POST /uploadResult (JSON: resultUrl)
// 외부에서 생성된 result 이미지를 우리 storage로 재호스팅
func (h *UploadHandler) UploadResult(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req UploadResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.ResultURL == "" {
		writeError(w, http.StatusBadRequest, "resultUrl is required")
		return
	}

	resultURL, err := h.service.SaveRemoteImage(r.Context(), req.ResultURL, "results")
	if err != nil {
		// 원본 fetch 실패는 잘못된 입력으로 취급
		if errors.Is(err, storage.ErrFetch) || errors.Is(err, utils.ErrDecode) {
			writeError(w, http.StatusBadRequest, "Failed to fetch result image")
			return
		}
		log.Printf("❌ Result upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store result image")
		return
	}

	json.NewEncoder(w).Encode(UploadResultResponse{
		Message:        "Result image uploaded",
		ResultImageURL: resultURL,
	})
}

// readFormImage - multipart 필드에서 이미지 바이너리와 mime type 추출
func readFormImage(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, "", err
	}

	return data, header.Header.Get("Content-Type"), nil
}

// writeUploadError - 서비스 에러를 HTTP 상태로 변환
func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		writeError(w, http.StatusBadRequest, "Only JPEG, PNG and GIF images are allowed")
	case errors.Is(err, ErrPayloadTooLarge):
		writeError(w, http.StatusBadRequest, "File exceeds the 10MB limit")
	case errors.Is(err, utils.ErrDecode):
		writeError(w, http.StatusBadRequest, "File is not a decodable image")
	default:
		log.Printf("❌ Upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to store image")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
