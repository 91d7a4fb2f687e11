package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"leave-engine/internal/domain/leave"
)

const sendTimeout = 2 * time.Second

// Dispatcher publishes lifecycle events after the transaction that caused
// them has committed. Delivery runs in the background; failures are logged
// and never surface to the caller.
type Dispatcher struct {
	notifier leave.Notifier
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(n leave.Notifier, log *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: n, log: log.Named("events")}
}

// Send hands the events to a background delivery and returns at once.
func (d *Dispatcher) Send(ctx context.Context, evs ...leave.Event) {
	if d == nil || d.notifier == nil || len(evs) == 0 {
		return
	}
	// detached from the caller's request, with its own budget
	sctx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(sctx, evs)
	}()
}

// Wait blocks until every delivery started by Send has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, evs []leave.Event) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	for _, e := range evs {
		if e.RecipientID == "" {
			d.log.Debug("event dropped, no recipient", zap.String("type", string(e.Type)), zap.String("request_id", e.RequestID))
			continue
		}
		if err := d.notifier.Notify(ctx, e); err != nil {
			d.log.Warn("notification failed",
				zap.String("type", string(e.Type)),
				zap.String("request_id", e.RequestID),
				zap.String("recipient_id", e.RecipientID),
				zap.Error(err))
		}
	}
}
