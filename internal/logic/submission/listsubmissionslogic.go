// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package submission

import (
	"context"
	"time"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/svc"
	"github.com/joeblew999/plat-fonts/internal/types"
	"github.com/joeblew999/plat-fonts/pkg/queue"

	"github.com/zeromicro/go-zero/core/logx"
)

type ListSubmissionsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewListSubmissionsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ListSubmissionsLogic {
	return &ListSubmissionsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ListSubmissionsLogic) ListSubmissions(req *types.ListSubmissionsRequest) (resp *types.ListSubmissionsResponse, err error) {
	if l.svcCtx.Queue == nil {
		return &types.ListSubmissionsResponse{Submissions: []types.SubmissionResponse{}}, nil
	}

	limit := req.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	jobs, err := l.svcCtx.Queue.List(l.ctx, req.Status, limit)
	if err != nil {
		return nil, errorx.ErrInternal("failed to list submissions: " + err.Error())
	}

	submissions := make([]types.SubmissionResponse, 0, len(jobs))
	for _, job := range jobs {
		submissions = append(submissions, toResponse(job))
	}

	return &types.ListSubmissionsResponse{
		Submissions: submissions,
		Count:       len(submissions),
	}, nil
}

func toResponse(job *queue.SubmissionJob) types.SubmissionResponse {
	resp := types.SubmissionResponse{
		Id:          job.ID,
		Theme:       job.Theme,
		Families:    job.Families,
		Status:      job.Status,
		Attempts:    job.Attempts,
		MaxAttempts: job.MaxAttempts,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt.UTC().Format(time.RFC3339),
	}
	if job.DeliveredAt != nil {
		resp.DeliveredAt = job.DeliveredAt.UTC().Format(time.RFC3339)
	}
	return resp
}
