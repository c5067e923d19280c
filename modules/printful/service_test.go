package printful

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"swapmock-server/modules/common/model"
)

// fakeProvider - create-task/poll 프로토콜을 흉내내는 서버
// pollsUntilDone번 pending 후 terminal 상태 반환
type fakeProvider struct {
	mu             sync.Mutex
	polls          map[string]int
	pollsUntilDone int
	failVariants   map[int]bool
	created        int
}

func newFakeProvider(pollsUntilDone int) *fakeProvider {
	return &fakeProvider{
		polls:          make(map[string]int),
		pollsUntilDone: pollsUntilDone,
		failVariants:   make(map[int]bool),
	}
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/mockup-generator/create-task", func(w http.ResponseWriter, r *http.Request) {
		var req createTaskRequest
		json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		f.created++
		f.mu.Unlock()

		taskKey := fmt.Sprintf("task-%d", req.VariantID)
		json.NewEncoder(w).Encode(createTaskResponse{
			Code:   200,
			Result: RenderTask{TaskKey: taskKey, Status: TaskPending},
		})
	})

	mux.HandleFunc("/mockup-generator/task", func(w http.ResponseWriter, r *http.Request) {
		taskKey := r.URL.Query().Get("task_key")

		f.mu.Lock()
		f.polls[taskKey]++
		count := f.polls[taskKey]
		f.mu.Unlock()

		task := RenderTask{TaskKey: taskKey, Status: TaskPending}
		if count >= f.pollsUntilDone {
			var variantID int
			fmt.Sscanf(taskKey, "task-%d", &variantID)
			if f.failVariants[variantID] {
				task.Status = TaskFailed
				task.Error = "render failed"
			} else {
				task.Status = TaskCompleted
				task.Mockups = []Mockup{{MockupURL: "https://provider.example.com/" + taskKey + ".png"}}
			}
		}
		json.NewEncoder(w).Encode(taskStatusResponse{Code: 200, Result: task})
	})

	return mux
}

func newTestService(ts *httptest.Server, maxAttempts int) *Service {
	return &Service{
		apiBase:       ts.URL,
		apiKey:        "test-key",
		httpClient:    ts.Client(),
		pollInterval:  2 * time.Millisecond,
		maxAttempts:   maxAttempts,
		maxConcurrent: 2,
	}
}

func TestWaitForCompletionSuccess(t *testing.T) {
	provider := newFakeProvider(3)
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	s := newTestService(ts, 10)

	taskKey, err := s.CreateMockupTask(context.Background(), 1320, "Mug", "https://x/result.jpg")
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if taskKey != "task-1320" {
		t.Fatalf("unexpected task key: %s", taskKey)
	}

	task, err := s.WaitForCompletion(context.Background(), taskKey)
	if err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if task.Status != TaskCompleted || len(task.Mockups) != 1 {
		t.Fatalf("unexpected terminal task: %+v", task)
	}
}

func TestWaitForCompletionTaskError(t *testing.T) {
	provider := newFakeProvider(2)
	provider.failVariants[4012] = true
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	s := newTestService(ts, 10)

	if _, err := s.WaitForCompletion(context.Background(), "task-4012"); !errors.Is(err, ErrProviderTask) {
		t.Fatalf("expected ErrProviderTask, got %v", err)
	}
}

func TestWaitForCompletionTimeout(t *testing.T) {
	// terminal 상태에 절대 도달하지 않는 작업
	provider := newFakeProvider(1000)
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	s := newTestService(ts, 4)

	_, err := s.WaitForCompletion(context.Background(), "task-9999")
	if !errors.Is(err, ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}

	provider.mu.Lock()
	polls := provider.polls["task-9999"]
	provider.mu.Unlock()
	if polls != 4 {
		t.Fatalf("polled %d times, want exactly maxAttempts (4)", polls)
	}
}

func TestGenerateMockupsCollectsPartialSuccess(t *testing.T) {
	provider := newFakeProvider(2)
	provider.failVariants[1320] = true // Mug 렌더링 실패
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	s := newTestService(ts, 10)

	products := []model.ProductRequest{
		{ID: 1, Name: "T-Shirt"},
		{ID: 2, Name: "Unknown"}, // variant 매핑 없음
		{ID: 3, Name: "Mug"},     // 작업 실패
	}

	results := s.GenerateMockups(context.Background(), "https://x/result.jpg", products)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	if results[0].ProductID != 1 || results[0].ProductName != "T-Shirt" {
		t.Fatalf("unexpected surviving product: %+v", results[0])
	}
	if results[0].MockupImageURL != "https://provider.example.com/task-4012.png" {
		t.Fatalf("unexpected mockup url: %s", results[0].MockupImageURL)
	}

	// Unknown은 작업 제출조차 안 함
	provider.mu.Lock()
	created := provider.created
	provider.mu.Unlock()
	if created != 2 {
		t.Fatalf("created %d tasks, want 2", created)
	}
}
