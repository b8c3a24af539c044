package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ToolForge_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Tool lifecycle event types
const (
	ToolBuilt    Type = "tool.built"
	ToolRebuilt  Type = "tool.rebuilt"
	ToolRepaired Type = "tool.repaired"
	ToolDamaged  Type = "tool.damaged"
	ToolBroken   Type = "tool.broken"
	ToolModified Type = "tool.modified"
)

// ToolBuiltPayloadV1 is published once a new tool has been persisted.
// Document is a private copy of the final built document.
type ToolBuiltPayloadV1 struct {
	ToolID     string               `json:"tool_id"`
	ToolType   string               `json:"tool_type"`
	Materials  []string             `json:"materials"`
	Durability int                  `json:"durability"`
	Document   *domain.ToolDocument `json:"document"`
	Timestamp  int64                `json:"timestamp"`
}

// ToolRebuiltPayloadV1 is published when a load rewrote stored state
type ToolRebuiltPayloadV1 struct {
	ToolID    string `json:"tool_id"`
	Revision  int64  `json:"revision"`
	Timestamp int64  `json:"timestamp"`
}

// ToolRepairedPayloadV1 is the typed payload for repair events
type ToolRepairedPayloadV1 struct {
	ToolID        string `json:"tool_id"`
	UnitsConsumed int    `json:"units_consumed"`
	Iterations    int    `json:"iterations"`
	Restored      int    `json:"restored"`
	Damage        int    `json:"damage"`
	RepairCount   int    `json:"repair_count"`
	Timestamp     int64  `json:"timestamp"`
}

// ToolDamagedPayloadV1 is the typed payload for wear and break events
type ToolDamagedPayloadV1 struct {
	ToolID    string `json:"tool_id"`
	Amount    int    `json:"amount"`
	Damage    int    `json:"damage"`
	Broken    bool   `json:"broken"`
	Timestamp int64  `json:"timestamp"`
}

// ToolModifiedPayloadV1 is the typed payload for modifier events
type ToolModifiedPayloadV1 struct {
	ToolID        string `json:"tool_id"`
	ModifierID    string `json:"modifier_id"`
	Level         int    `json:"level"`
	FreeModifiers int    `json:"free_modifiers"`
	Timestamp     int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewToolBuiltEvent creates a tool built event carrying a copy of doc
func NewToolBuiltEvent(toolID string, doc *domain.ToolDocument) Event {
	doc = doc.Clone()
	return Event{
		Version: EventSchemaVersion,
		Type:    ToolBuilt,
		Payload: ToolBuiltPayloadV1{
			ToolID:     toolID,
			ToolType:   doc.ToolType,
			Materials:  append([]string(nil), doc.Base.Materials...),
			Durability: doc.Tool.Durability,
			Document:   doc,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			"tool_type": doc.ToolType,
		},
	}
}

// NewToolRebuiltEvent creates a new tool rebuilt event
func NewToolRebuiltEvent(toolID string, revision int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ToolRebuilt,
		Payload: ToolRebuiltPayloadV1{
			ToolID:    toolID,
			Revision:  revision,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewToolRepairedEvent creates a new tool repaired event
func NewToolRepairedEvent(toolID string, units, iterations, restored, damage, repairCount int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ToolRepaired,
		Payload: ToolRepairedPayloadV1{
			ToolID:        toolID,
			UnitsConsumed: units,
			Iterations:    iterations,
			Restored:      restored,
			Damage:        damage,
			RepairCount:   repairCount,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// NewToolDamagedEvent creates a damage event, typed ToolBroken when the hit broke the tool
func NewToolDamagedEvent(toolID string, amount, damage int, broken bool) Event {
	t := ToolDamaged
	if broken {
		t = ToolBroken
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: ToolDamagedPayloadV1{
			ToolID:    toolID,
			Amount:    amount,
			Damage:    damage,
			Broken:    broken,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewToolModifiedEvent creates a new tool modified event
func NewToolModifiedEvent(toolID, modifierID string, level, freeModifiers int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ToolModified,
		Payload: ToolModifiedPayloadV1{
			ToolID:        toolID,
			ModifierID:    modifierID,
			Level:         level,
			FreeModifiers: freeModifiers,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher accepts events without making the caller wait on delivery
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler subscribed to event.Type, in subscription order.
// A failing handler does not stop the rest; their errors are joined.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%d handler(s) failed for %s: %w", len(errs), event.Type, errors.Join(errs...))
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
