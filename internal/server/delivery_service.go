package server

import (
	"github.com/joeblew999/plat-fonts/pkg/delivery"
	"github.com/zeromicro/go-zero/core/logx"
)

// deliveryService runs the outbox workers inside the service group so they
// stop together with the UI, API and MCP servers.
type deliveryService struct {
	engine  *delivery.Engine
	workers int
}

func newDeliveryService(engine *delivery.Engine, workers int) *deliveryService {
	return &deliveryService{engine: engine, workers: max(workers, 1)}
}

func (s *deliveryService) Start() {
	logx.Infof("Starting catalog sync delivery with %d workers", s.workers)
	s.engine.Start(s.workers)
}

func (s *deliveryService) Stop() {
	s.engine.Stop()
	logx.Info("Catalog sync delivery stopped")
}
