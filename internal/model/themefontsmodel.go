package model

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ ThemeFontsModel = (*customThemeFontsModel)(nil)

type (
	// ThemeFontsModel is an interface to be customized, add more methods here,
	// and implement the added methods in customThemeFontsModel.
	ThemeFontsModel interface {
		themeFontsModel
		withSession(session sqlx.Session) ThemeFontsModel
		Upsert(ctx context.Context, theme, fontsJSON string) (int64, error)
	}

	customThemeFontsModel struct {
		*defaultThemeFontsModel
	}
)

// NewThemeFontsModel returns a model for the database table.
func NewThemeFontsModel(conn sqlx.SqlConn) ThemeFontsModel {
	return &customThemeFontsModel{
		defaultThemeFontsModel: newThemeFontsModel(conn),
	}
}

func (m *customThemeFontsModel) withSession(session sqlx.Session) ThemeFontsModel {
	return NewThemeFontsModel(sqlx.NewSqlConnFromSession(session))
}

// Upsert stores the catalog document for a theme, bumping its revision.
// It returns the new revision.
func (m *customThemeFontsModel) Upsert(ctx context.Context, theme, fontsJSON string) (int64, error) {
	query := fmt.Sprintf("insert into %s (`theme`, `fonts_json`, `revision`) values (?, ?, 1) "+
		"on conflict(`theme`) do update set `fonts_json` = excluded.`fonts_json`, "+
		"`revision` = %s.`revision` + 1, `updated_at` = CURRENT_TIMESTAMP", m.table, m.table)
	if _, err := m.conn.ExecCtx(ctx, query, theme, fontsJSON); err != nil {
		return 0, err
	}

	var revision int64
	err := m.conn.QueryRowCtx(ctx, &revision, fmt.Sprintf("select `revision` from %s where `theme` = ?", m.table), theme)
	return revision, err
}
