package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"swapmock-server/modules/common/config"
	"swapmock-server/modules/faceswap"
	"swapmock-server/modules/mockup"
	"swapmock-server/modules/mockupjob"
	"swapmock-server/modules/progress"
	"swapmock-server/modules/upload"
)

// enableCORS - 설정된 origin(+Origin 없는 호출)만 허용
func enableCORS(allowedOrigin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Origin 없는 호출(서버 간, curl 등)은 통과
			if origin != "" {
				if origin != allowedOrigin {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// healthCheck - 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "swapmock-server",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Mockup Queue Worker 시작 (백그라운드)
	go mockupjob.StartWorker()

	// 라우터 설정
	r := mux.NewRouter()

	// CORS 미들웨어 적용
	r.Use(enableCORS(cfg.AllowedOrigin))

	// 라우트 설정
	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	upload.NewUploadHandler().RegisterRoutes(r)
	mockup.NewMockupHandler().RegisterRoutes(r)
	faceswap.NewFaceSwapHandler().RegisterRoutes(r)
	progress.NewProgressHandler().RegisterRoutes(r)

	if jobHandler := mockupjob.NewJobHandler(); jobHandler != nil {
		jobHandler.RegisterRoutes(r)
	} else {
		log.Println("⚠️  Async mockup endpoints disabled (Redis/DB unavailable)")
	}

	// 정적 파일 (템플릿 미리보기 등)
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.PublicDir))))

	log.Printf("🚀 SwapMock server starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
