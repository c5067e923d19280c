package progress

import (
	"encoding/json"
	"log"
	"sync"
)

// Event - worker가 밀어주는 진행률 메시지
type Event struct {
	Type      string `json:"type"`
	JobID     string `json:"jobId"`
	Status    string `json:"status"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// subscriber - job 1개를 구독 중인 websocket 클라이언트
type subscriber struct {
	send chan []byte
}

// Hub - jobID별 구독자 관리
type Hub struct {
	mutex       sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
}

var defaultHub = &Hub{
	subscribers: make(map[string]map[*subscriber]struct{}),
}

// subscribe - jobID 구독 시작
func subscribe(jobID string) *subscriber {
	sub := &subscriber{
		send: make(chan []byte, 16),
	}

	defaultHub.mutex.Lock()
	if defaultHub.subscribers[jobID] == nil {
		defaultHub.subscribers[jobID] = make(map[*subscriber]struct{})
	}
	defaultHub.subscribers[jobID][sub] = struct{}{}
	count := len(defaultHub.subscribers[jobID])
	defaultHub.mutex.Unlock()

	log.Printf("👤 Progress subscriber joined job %s (subscribers: %d)", jobID, count)
	return sub
}

// unsubscribe - 구독 해제
func unsubscribe(jobID string, sub *subscriber) {
	defaultHub.mutex.Lock()
	defer defaultHub.mutex.Unlock()

	if subs, exists := defaultHub.subscribers[jobID]; exists {
		if _, ok := subs[sub]; ok {
			close(sub.send)
			delete(subs, sub)
		}
		if len(subs) == 0 {
			delete(defaultHub.subscribers, jobID)
		}
	}
}

// Publish - 해당 job의 모든 구독자에게 이벤트 전송
// 버퍼가 가득 찬(느린) 구독자는 끊어냄 - worker를 절대 블로킹하지 않음
func Publish(event Event) {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to marshal progress event: %v", err)
		return
	}

	defaultHub.mutex.Lock()
	defer defaultHub.mutex.Unlock()

	subs := defaultHub.subscribers[event.JobID]
	for sub := range subs {
		select {
		case sub.send <- messageBytes:
		default:
			close(sub.send)
			delete(subs, sub)
			log.Printf("🔌 Dropped slow progress subscriber for job %s", event.JobID)
		}
	}
}
