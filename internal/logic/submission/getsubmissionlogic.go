// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package submission

import (
	"context"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/svc"
	"github.com/joeblew999/plat-fonts/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetSubmissionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetSubmissionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetSubmissionLogic {
	return &GetSubmissionLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetSubmissionLogic) GetSubmission(req *types.GetSubmissionRequest) (resp *types.SubmissionResponse, err error) {
	if l.svcCtx.Queue == nil {
		return nil, errorx.ErrNotFound("submission not found: " + req.Id)
	}

	job, err := l.svcCtx.Queue.GetStatus(l.ctx, req.Id)
	if err != nil {
		return nil, errorx.ErrInternal("failed to get submission: " + err.Error())
	}
	if job == nil {
		return nil, errorx.ErrNotFound("submission not found: " + req.Id)
	}

	r := toResponse(job)
	return &r, nil
}
