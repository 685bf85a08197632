// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package fonts

import (
	"context"
	"errors"

	"github.com/joeblew999/plat-fonts/internal/backing"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/svc"
	"github.com/joeblew999/plat-fonts/internal/types"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"

	"github.com/zeromicro/go-zero/core/logx"
)

type DeliverFontsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDeliverFontsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DeliverFontsLogic {
	return &DeliverFontsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// DeliverFonts receives a catalog submission, the remote end of the sync
// bridge.
func (l *DeliverFontsLogic) DeliverFonts(req *types.DeliverFontsRequest) (resp *types.DeliverFontsResponse, err error) {
	theme := req.Theme
	if theme == "" {
		theme = l.svcCtx.Config.Theme.Name
	}

	sub := syncbridge.Submission{
		NewThemeFontsJSON: req.NewThemeFontsJSON,
		Nonce:             req.Nonce,
		Sequence:          req.Sequence,
	}
	revision, err := l.svcCtx.Backing.Deliver(l.ctx, theme, sub)
	switch {
	case errors.Is(err, backing.ErrInvalidNonce):
		return nil, errorx.ErrForbidden(err.Error())
	case errors.Is(err, backing.ErrInvalidPayload):
		return nil, errorx.ErrBadRequest(err.Error())
	case errors.Is(err, backing.ErrStaleSubmission):
		return nil, errorx.ErrConflict(err.Error())
	case err != nil:
		return nil, errorx.ErrInternal("failed to store catalog: " + err.Error())
	}

	c, _ := syncbridge.Decode(sub)
	return &types.DeliverFontsResponse{
		Theme:    theme,
		Revision: revision,
		Families: len(c),
	}, nil
}
