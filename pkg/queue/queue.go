// Package queue provides the catalog submission outbox using goqite.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"maragu.dev/goqite"
)

// Submission statuses tracked in the submissions table.
const (
	StatusPending   = "pending"
	StatusRetry     = "retry"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// DefaultMaxAttempts bounds delivery attempts when a job does not set one.
const DefaultMaxAttempts = 3

// SubmissionJob is one catalog submission waiting for delivery.
type SubmissionJob struct {
	ID          string                `json:"id"`
	Theme       string                `json:"theme"`
	Submission  syncbridge.Submission `json:"submission"`
	Sequence    int64                 `json:"sequence,omitempty"`
	Families    int                   `json:"families"`
	Status      string                `json:"status"`
	Attempts    int                   `json:"attempts"`
	MaxAttempts int                   `json:"max_attempts"`
	Error       string                `json:"error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	DeliveredAt *time.Time            `json:"delivered_at,omitempty"`

	msgID goqite.ID
}

// Queue manages submission jobs using goqite, mirroring their status in
// the submissions table.
type Queue struct {
	conn   sqlx.SqlConn
	queue  *goqite.Queue
	name   string
	Events *EventRecorder
}

// NewQueue creates a new submission queue on db.
func NewQueue(db *sql.DB, conn sqlx.SqlConn, name string) (*Queue, error) {
	if err := goqite.Setup(context.Background(), db); err != nil {
		return nil, fmt.Errorf("setup goqite: %w", err)
	}

	events, err := NewEventRecorder(conn)
	if err != nil {
		return nil, fmt.Errorf("event recorder: %w", err)
	}

	return &Queue{
		conn:   conn,
		queue:  goqite.New(goqite.NewOpts{DB: db, Name: name}),
		name:   name,
		Events: events,
	}, nil
}

// Name returns the goqite queue name.
func (q *Queue) Name() string {
	return q.name
}

// Enqueue adds a job to the outbox and records it as pending.
func (q *Queue) Enqueue(ctx context.Context, job SubmissionJob) (string, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = DefaultMaxAttempts
	}
	job.Status = StatusPending
	job.CreatedAt = time.Now()

	if err := q.send(ctx, job, 0); err != nil {
		return "", err
	}

	if err := q.storeSubmission(ctx, job); err != nil {
		return "", fmt.Errorf("store submission: %w", err)
	}

	return job.ID, nil
}

// Receive gets the next job from the queue. It returns nil, nil when the
// queue is empty.
func (q *Queue) Receive(ctx context.Context) (*SubmissionJob, error) {
	msg, err := q.queue.Receive(ctx)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, nil
	}

	var job SubmissionJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		// A body we cannot decode will never succeed; drop it.
		_ = q.queue.Delete(ctx, msg.ID)
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	job.msgID = msg.ID

	return &job, nil
}

// Extend extends the timeout for a job being processed.
func (q *Queue) Extend(ctx context.Context, job *SubmissionJob, d time.Duration) error {
	return q.queue.Extend(ctx, job.msgID, d)
}

// MarkDelivered completes a job.
func (q *Queue) MarkDelivered(ctx context.Context, job *SubmissionJob) error {
	if err := q.queue.Delete(ctx, job.msgID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	_, err := q.conn.ExecCtx(ctx, "update `submissions` set `status` = ?, `attempts` = `attempts` + 1, "+
		"`error` = NULL, `delivered_at` = CURRENT_TIMESTAMP, `updated_at` = CURRENT_TIMESTAMP where `id` = ?",
		StatusDelivered, job.ID)
	return err
}

// MarkRetry puts the job back on the queue after backoff.
func (q *Queue) MarkRetry(ctx context.Context, job *SubmissionJob, backoff time.Duration, cause error) error {
	if err := q.queue.Delete(ctx, job.msgID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	job.Status = StatusRetry
	job.Error = cause.Error()
	if err := q.send(ctx, *job, backoff); err != nil {
		return err
	}
	return q.updateStatus(ctx, job.ID, StatusRetry, cause)
}

// MarkFailed drops the job for good.
func (q *Queue) MarkFailed(ctx context.Context, job *SubmissionJob, cause error) error {
	if err := q.queue.Delete(ctx, job.msgID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return q.updateStatus(ctx, job.ID, StatusFailed, cause)
}

// GetStatus returns the tracked state of a submission, or nil if unknown.
func (q *Queue) GetStatus(ctx context.Context, id string) (*SubmissionJob, error) {
	var row submissionRow
	err := q.conn.QueryRowCtx(ctx, &row, "select "+submissionColumns+" from `submissions` where `id` = ?", id)
	if err != nil {
		if errors.Is(err, sqlx.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.job(), nil
}

// List returns submissions with an optional status filter, newest first.
func (q *Queue) List(ctx context.Context, status string, limit int) ([]*SubmissionJob, error) {
	query := "select " + submissionColumns + " from `submissions`"
	var args []any
	if status != "" && status != "all" {
		query += " where `status` = ?"
		args = append(args, status)
	}
	query += " order by `created_at` desc limit ?"
	args = append(args, limit)

	var rows []submissionRow
	if err := q.conn.QueryRowsCtx(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	jobs := make([]*SubmissionJob, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].job())
	}
	return jobs, nil
}

// Stats returns submission counts grouped by status.
func (q *Queue) Stats(ctx context.Context) (map[string]int, error) {
	type statusCount struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}

	var rows []statusCount
	err := q.conn.QueryRowsCtx(ctx, &rows, "select `status`, count(*) as `count` from `submissions` group by `status`")
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int)
	for _, r := range rows {
		stats[r.Status] = r.Count
	}
	return stats, nil
}

func (q *Queue) send(ctx context.Context, job SubmissionJob, delay time.Duration) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.queue.Send(ctx, goqite.Message{Body: body, Delay: delay}); err != nil {
		return fmt.Errorf("send to queue: %w", err)
	}
	return nil
}

func (q *Queue) storeSubmission(ctx context.Context, job SubmissionJob) error {
	_, err := q.conn.ExecCtx(ctx, "insert into `submissions` (`id`, `theme`, `families`, `status`, `attempts`, `max_attempts`) "+
		"values (?, ?, ?, ?, 0, ?)", job.ID, job.Theme, job.Families, job.Status, job.MaxAttempts)
	return err
}

func (q *Queue) updateStatus(ctx context.Context, id, status string, cause error) error {
	var errStr sql.NullString
	if cause != nil {
		errStr = sql.NullString{String: cause.Error(), Valid: true}
	}
	_, err := q.conn.ExecCtx(ctx, "update `submissions` set `status` = ?, `error` = ?, `attempts` = `attempts` + 1, "+
		"`updated_at` = CURRENT_TIMESTAMP where `id` = ?", status, errStr, id)
	return err
}

const submissionColumns = "`id`, `theme`, `families`, `status`, `attempts`, `max_attempts`, `error`, `delivered_at`, `created_at`"

type submissionRow struct {
	ID          string         `db:"id"`
	Theme       string         `db:"theme"`
	Families    int            `db:"families"`
	Status      string         `db:"status"`
	Attempts    int            `db:"attempts"`
	MaxAttempts int            `db:"max_attempts"`
	Error       sql.NullString `db:"error"`
	DeliveredAt sql.NullTime   `db:"delivered_at"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r submissionRow) job() *SubmissionJob {
	job := &SubmissionJob{
		ID:          r.ID,
		Theme:       r.Theme,
		Families:    r.Families,
		Status:      r.Status,
		Attempts:    r.Attempts,
		MaxAttempts: r.MaxAttempts,
		CreatedAt:   r.CreatedAt,
	}
	if r.Error.Valid {
		job.Error = r.Error.String
	}
	if r.DeliveredAt.Valid {
		t := r.DeliveredAt.Time
		job.DeliveredAt = &t
	}
	return job
}
