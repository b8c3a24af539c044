package metrics

import (
	"context"

	"github.com/osse101/ToolForge_Go/internal/event"
	"github.com/osse101/ToolForge_Go/internal/logger"
)

// recorder turns one event payload into metric updates
type recorder func(payload any) error

func decodeThen[T any](observe func(T)) recorder {
	return func(payload any) error {
		p, err := event.DecodePayload[T](payload)
		if err == nil {
			observe(p)
		}
		return err
	}
}

// recorders holds the per-type updates beyond the published count
var recorders = map[event.Type]recorder{
	event.ToolBuilt: decodeThen(func(p event.ToolBuiltPayloadV1) {
		ToolsBuilt.WithLabelValues(p.ToolType).Inc()
	}),
	event.ToolRepaired: decodeThen(func(p event.ToolRepairedPayloadV1) {
		RepairIterations.Observe(float64(p.Iterations))
		DurabilityRestored.Add(float64(p.Restored))
	}),
	event.ToolBroken: func(any) error {
		ToolsBroken.Inc()
		return nil
	},
	event.ToolModified: decodeThen(func(p event.ToolModifiedPayloadV1) {
		ModifiersApplied.WithLabelValues(p.ModifierID).Inc()
	}),
}

// EventMetricsCollector turns tool events into Prometheus updates
type EventMetricsCollector struct{}

func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every tool event type
func (c *EventMetricsCollector) Register(bus event.Bus) error {
	for _, t := range []event.Type{
		event.ToolBuilt, event.ToolRebuilt, event.ToolRepaired,
		event.ToolDamaged, event.ToolBroken, event.ToolModified,
	} {
		bus.Subscribe(t, c.HandleEvent)
	}
	return nil
}

// HandleEvent never fails the publish: a payload that cannot be decoded is
// counted in EventHandlerErrors and otherwise ignored.
func (c *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	rec, ok := recorders[evt.Type]
	if !ok {
		return nil
	}
	if err := rec(evt.Payload); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
		return nil
	}
	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
