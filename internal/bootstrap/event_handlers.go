package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/ToolForge_Go/internal/event"
	"github.com/osse101/ToolForge_Go/internal/logger"
	"github.com/osse101/ToolForge_Go/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector and the tool audit
// logger to the bus.
func RegisterEventHandlers(bus event.Bus) error {
	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	bus.Subscribe(event.ToolBroken, logToolBroken)
	slog.Info(LogMsgToolAuditRegistered)

	return nil
}

// logToolBroken leaves a warn line for every tool that reached zero durability
func logToolBroken(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.ToolDamagedPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Warn(LogMsgToolBroke, "tool_id", p.ToolID, "damage", p.Damage)
	return nil
}
