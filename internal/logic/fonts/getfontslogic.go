// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package fonts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/svc"
	"github.com/joeblew999/plat-fonts/internal/types"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/font"

	"github.com/zeromicro/go-zero/core/logx"
)

type GetFontsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGetFontsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GetFontsLogic {
	return &GetFontsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GetFontsLogic) GetFonts(req *types.GetFontsRequest) (resp *types.GetFontsResponse, err error) {
	theme := req.Theme
	if theme == "" {
		theme = l.svcCtx.Config.Theme.Name
	}

	doc, err := l.svcCtx.Backing.Load(l.ctx, theme)
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogUnavailable) {
			return nil, errorx.ErrUnavailable("catalog unavailable: " + err.Error())
		}
		return nil, errorx.ErrInternal("failed to load catalog: " + err.Error())
	}

	families, err := doc.Catalog.Marshal()
	if err != nil {
		return nil, errorx.ErrInternal("failed to encode catalog: " + err.Error())
	}
	outline, err := json.Marshal(catalog.Project(doc.Catalog, font.NewThemeAssets(l.svcCtx.Config.Theme.BaseURL)))
	if err != nil {
		return nil, errorx.ErrInternal("failed to encode outline: " + err.Error())
	}

	resp = &types.GetFontsResponse{
		Theme:    theme,
		Source:   doc.Source,
		Revision: doc.Revision,
		Families: families,
		Outline:  outline,
	}
	if !doc.UpdatedAt.IsZero() {
		resp.UpdatedAt = doc.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp, nil
}
