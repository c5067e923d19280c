package mockupjob

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"swapmock-server/modules/common/config"
	"swapmock-server/modules/common/database"
	"swapmock-server/modules/common/model"
	redisClient "swapmock-server/modules/common/redis"
)

// QueueKey - mockup job 대기열 (LPUSH로 적재, worker가 BRPOP)
const QueueKey = "mockup:jobs:queue"

// JobHandler - 비동기 mockup job 엔드포인트
type JobHandler struct {
	rdb *redis.Client
	db  *database.Client

	fetchJob func(ctx context.Context, jobID string) (*model.MockupJob, error)
}

// NewJobHandler - JobHandler 생성
func NewJobHandler() *JobHandler {
	cfg := config.GetConfig()

	rdb := redisClient.Connect(cfg)
	if rdb == nil {
		log.Println("⚠️ [MockupJob] Failed to connect to Redis")
		return nil
	}

	db := database.NewClient()
	if db == nil {
		log.Println("⚠️ [MockupJob] Failed to create database client")
		return nil
	}

	return &JobHandler{
		rdb:      rdb,
		db:       db,
		fetchJob: db.FetchMockupJob,
	}
}

// RegisterRoutes - 라우트 등록
func (h *JobHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/enqueueMockups", h.HandleEnqueue).Methods("POST", "OPTIONS")
	r.HandleFunc("/mockupStatus/{jobId}", h.HandleStatus).Methods("GET", "OPTIONS")
	log.Println("✅ Mockup job routes registered: /enqueueMockups, /mockupStatus/{jobId}")
}

// HandleEnqueue - POST /enqueueMockups
func (h *JobHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [MockupJob] Invalid request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	// 동기 /generateMockups와 동일한 구조 검증
	if req.ResultImageURL == "" || len(req.Products) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "Missing required fields: resultImageUrl, products",
		})
		return
	}

	engine := req.Engine
	if engine == "" {
		engine = model.EngineLocal
	}
	if engine != model.EngineLocal && engine != model.EnginePrintful {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "engine must be 'local' or 'printful'",
		})
		return
	}

	jobID := uuid.New().String()
	job := &model.MockupJob{
		JobID:          jobID,
		Engine:         engine,
		ResultImageURL: req.ResultImageURL,
		Products:       req.Products,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.db.CreateMockupJob(ctx, job); err != nil {
		log.Printf("❌ [MockupJob] Failed to create job row: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "Failed to create job",
		})
		return
	}

	position, err := h.rdb.LPush(ctx, QueueKey, jobID).Result()
	if err != nil {
		log.Printf("❌ [MockupJob] Redis LPUSH failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(EnqueueResponse{
			Success: false,
			Error:   "Failed to enqueue job",
		})
		return
	}

	log.Printf("📥 [MockupJob] Enqueued job %s (engine: %s, products: %d, position: %d)",
		jobID, engine, len(req.Products), position)

	json.NewEncoder(w).Encode(EnqueueResponse{
		Success:       true,
		Message:       "Mockup job enqueued",
		JobID:         jobID,
		Queue:         QueueKey,
		QueuePosition: position,
	})
}

// HandleStatus - GET /mockupStatus/{jobId}
func (h *JobHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	vars := mux.Vars(r)
	jobID := vars["jobId"]

	job, err := h.fetchJob(r.Context(), jobID)
	if err != nil {
		// 없는 job(404)과 DB 장애(500)를 구분
		if errors.Is(err, database.ErrJobNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Job not found",
			})
			return
		}
		log.Printf("❌ [MockupJob] Failed to fetch job %s: %v", jobID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Failed to fetch job",
		})
		return
	}

	mockupURLs := job.MockupResults
	if mockupURLs == nil {
		mockupURLs = []model.MockupResult{}
	}

	json.NewEncoder(w).Encode(StatusResponse{
		JobID:      job.JobID,
		Status:     job.JobStatus,
		Engine:     job.Engine,
		Completed:  job.CompletedCount,
		Total:      job.TotalCount,
		MockupURLs: mockupURLs,
		Error:      job.ErrorMessage,
	})
}
