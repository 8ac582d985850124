package usecase

import (
	"context"
	"sync/atomic"

	"mesaYaReservas/internal/modules/realtime/application/port"
	"mesaYaReservas/internal/modules/realtime/domain"
)

type BroadcastUseCase struct {
	broadcaster port.Broadcaster
	delivered   atomic.Int64
}

func NewBroadcastUseCase(b port.Broadcaster) *BroadcastUseCase {
	return &BroadcastUseCase{broadcaster: b}
}

func (uc *BroadcastUseCase) Execute(ctx context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	msg.NormalizeTopic()
	uc.broadcaster.Broadcast(ctx, msg)
	uc.delivered.Add(1)
}

// Delivered reports how many messages were handed to the broadcaster.
func (uc *BroadcastUseCase) Delivered() int64 {
	return uc.delivered.Load()
}
