// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package svc

import (
	"github.com/joeblew999/plat-fonts/internal/backing"
	"github.com/joeblew999/plat-fonts/internal/config"
	"github.com/joeblew999/plat-fonts/internal/session"
	"github.com/joeblew999/plat-fonts/pkg/queue"
)

type ServiceContext struct {
	Config   config.Config
	Backing  *backing.Store
	Sessions *session.Manager
	// Queue is nil unless submissions go through the outbox.
	Queue *queue.Queue
}

func NewServiceContext(c config.Config, b *backing.Store, sessions *session.Manager, q *queue.Queue) *ServiceContext {
	return &ServiceContext{
		Config:   c,
		Backing:  b,
		Sessions: sessions,
		Queue:    q,
	}
}
