package mockupjob

import (
	"context"
	"log"
	"time"

	"swapmock-server/modules/common/config"
	"swapmock-server/modules/common/database"
	"swapmock-server/modules/common/model"
	redisClient "swapmock-server/modules/common/redis"
	"swapmock-server/modules/mockup"
	"swapmock-server/modules/printful"
	"swapmock-server/modules/progress"
)

// StartWorker - Redis Queue Worker 시작
func StartWorker() {
	log.Println("🔄 Mockup queue worker starting...")

	cfg := config.GetConfig()

	rdb := redisClient.Connect(cfg)
	if rdb == nil {
		log.Println("⚠️ [Worker] Redis unavailable, async mockup jobs disabled")
		return
	}

	db := database.NewClient()
	if db == nil {
		log.Println("⚠️ [Worker] Database unavailable, async mockup jobs disabled")
		return
	}

	log.Printf("👀 Watching queue: %s", QueueKey)

	ctx := context.Background()

	for {
		// Blocking Right Pop - job이 들어올 때까지 대기
		result, err := rdb.BRPop(ctx, 0, QueueKey).Result()
		if err != nil {
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0]은 큐 이름, result[1]이 job_id
		jobID := result[1]
		log.Printf("🎯 Received mockup job: %s", jobID)

		go processJob(ctx, db, jobID)
	}
}

// processJob - Job 1건 처리: 조회 → orchestrator 실행 → 결과 저장
func processJob(ctx context.Context, db *database.Client, jobID string) {
	job, err := db.FetchMockupJob(ctx, jobID)
	if err != nil {
		log.Printf("❌ Failed to fetch job %s: %v", jobID, err)
		return
	}

	if err := db.UpdateJobStatus(ctx, jobID, model.StatusProcessing); err != nil {
		log.Printf("❌ Failed to update job status: %v", err)
		return
	}

	progress.Publish(progress.Event{
		Type:   "mockup_progress",
		JobID:  jobID,
		Status: model.StatusProcessing,
		Total:  job.TotalCount,
	})

	var results []model.MockupResult

	switch job.Engine {
	case model.EnginePrintful:
		log.Printf("📌 Job %s: delegated rendering via Printful", jobID)
		results = printful.NewService().GenerateMockups(ctx, job.ResultImageURL, job.Products)

	default:
		log.Printf("📌 Job %s: local compositing", jobID)

		// Job마다 새 Service - OnProgress가 job 간에 섞이지 않음
		service := mockup.NewService()
		service.OnProgress = func(completed, total int) {
			progress.Publish(progress.Event{
				Type:      "mockup_progress",
				JobID:     jobID,
				Status:    model.StatusProcessing,
				Completed: completed,
				Total:     total,
			})
		}

		results, err = service.GenerateMockups(ctx, job.ResultImageURL, job.Products)
		if err != nil {
			log.Printf("❌ Job %s failed: %v", jobID, err)
			db.SetJobError(ctx, jobID, err.Error())
			progress.Publish(progress.Event{
				Type:   "mockup_progress",
				JobID:  jobID,
				Status: model.StatusFailed,
				Total:  job.TotalCount,
			})
			return
		}
	}

	if err := db.SaveJobResults(ctx, jobID, results); err != nil {
		log.Printf("❌ Failed to save results for job %s: %v", jobID, err)
	}

	if err := db.UpdateJobStatus(ctx, jobID, model.StatusCompleted); err != nil {
		log.Printf("❌ Failed to complete job %s: %v", jobID, err)
		return
	}

	progress.Publish(progress.Event{
		Type:      "mockup_progress",
		JobID:     jobID,
		Status:    model.StatusCompleted,
		Completed: len(results),
		Total:     job.TotalCount,
	})

	log.Printf("✅ Job %s completed: %d/%d mockups", jobID, len(results), job.TotalCount)
}
