package progress

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"swapmock-server/modules/common/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Origin 없는 호출(서버 간, curl 등)은 허용
		if origin == "" {
			return true
		}
		return origin == config.GetConfig().AllowedOrigin
	},
}

type ProgressHandler struct{}

func NewProgressHandler() *ProgressHandler {
	return &ProgressHandler{}
}

// RegisterRoutes - 라우터에 진행률 websocket 등록
func (h *ProgressHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ws/progress", h.HandleProgress)
	log.Println("✅ Progress websocket registered: /ws/progress")
}

// HandleProgress - GET /ws/progress?job=<jobId>
// 단방향 스트림 - 서버가 mockup_progress 이벤트만 밀어줌
func (h *ProgressHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		http.Error(w, "job parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	sub := subscribe(jobID)

	// 클라이언트 종료 감지용 read 루프
	go func() {
		defer unsubscribe(jobID, sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// write 루프
	go func() {
		defer conn.Close()
		for message := range sub.send {
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, []byte{})
	}()
}
