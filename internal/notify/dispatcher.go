package notify

import (
	"context"
	"log"

	"github.com/rm-hull/nl-fuel-prices/internal/models"
)

// Sink delivers composed messages to one channel.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) PriceChanged(ctx context.Context, loc models.LocationConfig, event models.ChangeEvent) {
	msg, err := ComposePriceChange(loc, event)
	if err != nil {
		log.Printf("failed to compose price change notification for %s: %v", loc.DisplayName(), err)
		return
	}
	d.Dispatch(ctx, msg)
}

func (d *Dispatcher) DailyReport(ctx context.Context, loc models.LocationConfig, cycle *models.CycleResult) {
	msg, err := ComposeDailyReport(loc, cycle)
	if err != nil {
		log.Printf("failed to compose daily report for %s: %v", loc.DisplayName(), err)
		return
	}
	d.Dispatch(ctx, msg)
}

// Dispatch hands the message to every sink; a failing sink does not stop the others.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	for _, sink := range d.sinks {
		if err := sink.Send(ctx, msg); err != nil {
			log.Printf("failed to deliver %s for %s via %T: %v", msg.Kind, msg.Location, sink, err)
		}
	}
}

type LogSink struct{}

func (LogSink) Send(ctx context.Context, msg Message) error {
	log.Printf("%s\n%s", msg.Title, msg.Text)
	return nil
}
