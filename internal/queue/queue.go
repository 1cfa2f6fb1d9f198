// Package queue is a small database-backed job queue. It exists for
// work that must survive a process restart, currently retrying failed
// notification channel sends and anything else registered by the jobs
// package.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeNotificationRetry JobType = "notification_retry"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status" gorm:"index"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:5"`
	NextRetry  *time.Time      `json:"next_retry,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Error      string          `json:"error,omitempty"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) error

// Queue is a database-backed job queue with exponential retry backoff.
type Queue struct {
	db         *gorm.DB
	handlers   map[JobType]JobHandler
	retry      RetryConfig
	processing bool
}

// RetryConfig defines the backoff applied to failed jobs.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetryConfig matches what notification channel sends need:
// quick first retry, capped at an hour.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      5,
		InitialInterval: 30 * time.Second,
		MaxInterval:     time.Hour,
		Multiplier:      2.0,
	}
}

// NewQueue creates a new queue.
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
		retry:    DefaultRetryConfig(),
	}
}

// RegisterHandler registers a handler for a job type
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.handlers[jobType] = handler
}

// Enqueue adds a job to the queue
func (q *Queue) Enqueue(ctx context.Context, jobType JobType, payload interface{}) (uuid.UUID, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    payloadBytes,
		Status:     JobStatusPending,
		MaxRetries: q.retry.MaxRetries,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := q.db.WithContext(ctx).Create(&job).Error; err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}

// StartProcessing polls for due jobs until StopProcessing is called.
func (q *Queue) StartProcessing() {
	if q.processing {
		return
	}

	q.processing = true
	go func() {
		for q.processing {
			var job Job
			err := q.db.
				Where("status = ? AND (next_retry IS NULL OR next_retry <= ?)", JobStatusPending, time.Now()).
				Order("created_at ASC").
				First(&job).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					log.Printf("queue: error polling for jobs: %v", err)
				}
				time.Sleep(1 * time.Second)
				continue
			}

			q.processJob(job)
		}
	}()
}

// StopProcessing stops the polling loop.
func (q *Queue) StopProcessing() {
	q.processing = false
}

func (q *Queue) processJob(job Job) {
	handler, ok := q.handlers[job.Type]
	if !ok {
		log.Printf("queue: no handler registered for job type %s", job.Type)
		q.update(job.ID, map[string]interface{}{
			"status": JobStatusFailed,
			"error":  "no handler registered",
		})
		return
	}

	q.update(job.ID, map[string]interface{}{"status": JobStatusProcessing})

	if err := handler(context.Background(), job); err != nil {
		q.handleFailure(job, err)
		return
	}

	q.update(job.ID, map[string]interface{}{"status": JobStatusCompleted, "error": ""})
}

// handleFailure reschedules a failed job with exponential backoff until
// MaxRetries is exhausted.
func (q *Queue) handleFailure(job Job, cause error) {
	retryCount := job.RetryCount + 1
	if retryCount > job.MaxRetries {
		log.Printf("queue: job %s (%s) failed permanently after %d attempts: %v", job.ID, job.Type, job.MaxRetries, cause)
		q.update(job.ID, map[string]interface{}{
			"status": JobStatusFailed,
			"error":  fmt.Sprintf("exceeded max retries: %v", cause),
		})
		return
	}

	delay := q.backoff(retryCount)
	nextRetry := time.Now().Add(delay)
	log.Printf("queue: scheduling retry %d/%d for job %s in %v: %v", retryCount, job.MaxRetries, job.ID, delay, cause)
	q.update(job.ID, map[string]interface{}{
		"status":      JobStatusPending,
		"retry_count": retryCount,
		"next_retry":  nextRetry,
		"error":       cause.Error(),
	})
}

func (q *Queue) backoff(attempt int) time.Duration {
	interval := q.retry.InitialInterval
	for i := 1; i < attempt; i++ {
		interval = time.Duration(float64(interval) * q.retry.Multiplier)
		if interval > q.retry.MaxInterval {
			return q.retry.MaxInterval
		}
	}
	return interval
}

func (q *Queue) update(jobID uuid.UUID, fields map[string]interface{}) {
	fields["updated_at"] = time.Now()
	if err := q.db.Model(&Job{}).Where("id = ?", jobID).Updates(fields).Error; err != nil {
		log.Printf("queue: failed to update job %s: %v", jobID, err)
	}
}
