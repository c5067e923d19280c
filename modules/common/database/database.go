package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"
	"swapmock-server/modules/common/config"
	"swapmock-server/modules/common/model"
)

// ErrJobNotFound - job_id에 해당하는 행 없음 (쿼리 실패와 구분)
var ErrJobNotFound = errors.New("mockup job not found")

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// CreateMockupJob - mockup_jobs 테이블에 새 Job 생성
func (c *Client) CreateMockupJob(ctx context.Context, job *model.MockupJob) error {
	log.Printf("📝 Creating mockup job: %s (engine: %s, products: %d)",
		job.JobID, job.Engine, len(job.Products))

	insertData := map[string]interface{}{
		"job_id":           job.JobID,
		"job_status":       model.StatusQueued,
		"engine":           job.Engine,
		"result_image_url": job.ResultImageURL,
		"products":         job.Products,
		"total_count":      len(job.Products),
	}

	_, _, err := c.supabase.From("mockup_jobs").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert mockup job: %w", err)
	}

	log.Printf("✅ Mockup job created: %s", job.JobID)
	return nil
}

// FetchMockupJob - Job 데이터 조회
func (c *Client) FetchMockupJob(ctx context.Context, jobID string) (*model.MockupJob, error) {
	var jobs []model.MockupJob

	data, _, err := c.supabase.From("mockup_jobs").
		Select("*", "exact", false).
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query mockup_jobs: %w", err)
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	job := &jobs[0]
	log.Printf("🔍 Job fetched: %s (status: %s, products: %d)",
		job.JobID, job.JobStatus, job.TotalCount)

	return job, nil
}

// UpdateJobStatus - Job 상태 업데이트
func (c *Client) UpdateJobStatus(ctx context.Context, jobID string, status string) error {
	updateData := map[string]interface{}{
		"job_status": status,
		"updated_at": "now()",
	}

	if status == model.StatusProcessing {
		updateData["started_at"] = "now()"
	} else if status == model.StatusCompleted || status == model.StatusFailed {
		updateData["completed_at"] = "now()"
	}

	_, _, err := c.supabase.From("mockup_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	log.Printf("📝 Job %s status updated to: %s", jobID, status)
	return nil
}

// SaveJobResults - 완료된 mockup 결과 저장
func (c *Client) SaveJobResults(ctx context.Context, jobID string, results []model.MockupResult) error {
	updateData := map[string]interface{}{
		"mockup_results":  results,
		"completed_count": len(results),
		"updated_at":      "now()",
	}

	_, _, err := c.supabase.From("mockup_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to save job results: %w", err)
	}

	log.Printf("✅ Saved %d mockup results for job %s", len(results), jobID)
	return nil
}

// SetJobError - 실패 사유 기록
func (c *Client) SetJobError(ctx context.Context, jobID string, message string) error {
	updateData := map[string]interface{}{
		"job_status":    model.StatusFailed,
		"error_message": message,
		"completed_at":  "now()",
		"updated_at":    "now()",
	}

	_, _, err := c.supabase.From("mockup_jobs").
		Update(updateData, "", "").
		Eq("job_id", jobID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to set job error: %w", err)
	}

	return nil
}
