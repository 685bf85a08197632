package queue

import (
	"context"
	"fmt"

	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/zeromicro/go-zero/core/logx"
)

// Submitter hands bridge submissions to the outbox for a theme.
type Submitter struct {
	queue *Queue
	theme string
}

// NewSubmitter returns a syncbridge.Submitter that enqueues for theme.
func NewSubmitter(q *Queue, theme string) *Submitter {
	return &Submitter{queue: q, theme: theme}
}

// Submit enqueues s.
func (s *Submitter) Submit(ctx context.Context, sub syncbridge.Submission) error {
	c, err := syncbridge.Decode(sub)
	if err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}

	id, err := s.queue.Enqueue(ctx, SubmissionJob{
		Theme:      s.theme,
		Submission: sub,
		Sequence:   sub.Sequence,
		Families:   len(c),
	})
	if err != nil {
		return err
	}

	if s.queue.Events != nil {
		s.queue.Events.RecordEvent(id, "queued", fmt.Sprintf("%d families", len(c)))
	}
	logx.WithContext(ctx).Infow("Catalog submission queued",
		logx.Field("submission_id", id),
		logx.Field("theme", s.theme),
		logx.Field("sequence", sub.Sequence),
		logx.Field("families", len(c)))
	return nil
}
