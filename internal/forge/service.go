// Package forge is the tool service: it builds, loads, repairs, damages and
// modifies persisted tools on top of the pure composition and repair core.
package forge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ToolForge_Go/internal/concurrency"
	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/event"
	"github.com/osse101/ToolForge_Go/internal/logger"
	"github.com/osse101/ToolForge_Go/internal/metrics"
	"github.com/osse101/ToolForge_Go/internal/modifier"
	"github.com/osse101/ToolForge_Go/internal/repair"
	"github.com/osse101/ToolForge_Go/internal/repository"
	"github.com/osse101/ToolForge_Go/internal/tool"
	"github.com/osse101/ToolForge_Go/internal/toolstate"
)

// Tool is a loaded tool instance
type Tool struct {
	ID       string               `json:"id"`
	Revision int64                `json:"revision"`
	Status   toolstate.Status     `json:"-"`
	Document *domain.ToolDocument `json:"document,omitempty"`
}

func (t *Tool) clone() *Tool {
	out := *t
	out.Document = t.Document.Clone()
	return &out
}

// RepairOutcome describes a repair request
type RepairOutcome struct {
	Tool          *Tool              `json:"tool"`
	Repaired      bool               `json:"repaired"`
	Remaining     []domain.ItemStack `json:"remaining"`
	UnitsConsumed int                `json:"units_consumed"`
	Iterations    int                `json:"iterations"`
	Restored      int                `json:"restored"`
}

// MaterialCatalog is the read side of the material registry
type MaterialCatalog interface {
	Material(id string) (*domain.Material, bool)
	Materials() []*domain.Material
	Trait(id string) (*domain.Trait, bool)
	SuggestMaterial(id string) (string, bool)
}

// Service defines the interface for tool operations
type Service interface {
	BuildTool(ctx context.Context, toolType string, materialIDs []string) (*Tool, error)
	BuildToolFromParts(ctx context.Context, toolType string, parts []domain.ItemStack) (*Tool, error)
	PreviewTool(ctx context.Context, toolType string, materialIDs []string) (*domain.ToolDocument, error)
	GetTool(ctx context.Context, id string) (*Tool, error)
	RepairTool(ctx context.Context, id string, items []domain.ItemStack) (*RepairOutcome, error)
	DamageTool(ctx context.Context, id string, amount int) (*Tool, error)
	ApplyModifier(ctx context.Context, id, modifierID string) (*Tool, error)
	ListToolTypes(ctx context.Context) []ToolTypeInfo
	ListMaterials(ctx context.Context) []MaterialInfo
}

// Dependencies wires the service to the core engines and infrastructure
type Dependencies struct {
	Repo        repository.ToolState
	Materials   MaterialCatalog
	Types       *tool.Catalog
	Builder     *tool.Builder
	Rebuilder   *toolstate.Rebuilder
	Repairer    *repair.Engine
	Modifiers   modifier.Engine
	Publisher   event.Publisher
	LockManager *concurrency.LockManager

	// CacheSize of zero disables the tool cache
	CacheSize int
	CacheTTL  time.Duration
}

type service struct {
	repo        repository.ToolState
	materials   MaterialCatalog
	types       *tool.Catalog
	builder     *tool.Builder
	rebuilder   *toolstate.Rebuilder
	codec       *toolstate.Codec
	repairer    *repair.Engine
	modifiers   modifier.Engine
	publisher   event.Publisher
	lockManager *concurrency.LockManager
	cache       *toolCache
	newID       func() string
}

// NewService creates a new forge service
func NewService(deps Dependencies) Service {
	lm := deps.LockManager
	if lm == nil {
		lm = concurrency.NewLockManager()
	}
	return &service{
		repo:        deps.Repo,
		materials:   deps.Materials,
		types:       deps.Types,
		builder:     deps.Builder,
		rebuilder:   deps.Rebuilder,
		codec:       deps.Rebuilder.Codec(),
		repairer:    deps.Repairer,
		modifiers:   deps.Modifiers,
		publisher:   deps.Publisher,
		lockManager: lm,
		cache:       newToolCache(deps.CacheSize, deps.CacheTTL),
		newID:       uuid.NewString,
	}
}

// BuildTool composes a new tool from material ids and persists it
func (s *service) BuildTool(ctx context.Context, toolType string, materialIDs []string) (*Tool, error) {
	typ, err := s.types.Get(toolType)
	if err != nil {
		s.recordBuildFailure(ctx, toolType, buildFailureReason(err), err)
		return nil, err
	}

	doc, err := s.builder.BuildFromIDs(typ, materialIDs)
	if err != nil {
		err = s.withSuggestion(err)
		s.recordBuildFailure(ctx, toolType, buildFailureReason(err), err)
		return nil, err
	}
	return s.persistNew(ctx, typ, doc)
}

// BuildToolFromParts composes a new tool from crafted part stacks, one per
// slot, and persists it. Each stack must name its material and be a part the
// slot accepts.
func (s *service) BuildToolFromParts(ctx context.Context, toolType string, parts []domain.ItemStack) (*Tool, error) {
	typ, err := s.types.Get(toolType)
	if err != nil {
		s.recordBuildFailure(ctx, toolType, buildFailureReason(err), err)
		return nil, err
	}

	doc, err := s.builder.BuildFromStacks(typ, parts)
	if err != nil {
		s.recordBuildFailure(ctx, toolType, buildFailureReason(err), err)
		return nil, err
	}
	return s.persistNew(ctx, typ, doc)
}

func (s *service) persistNew(ctx context.Context, typ *tool.Type, doc *domain.ToolDocument) (*Tool, error) {
	data, err := s.codec.Encode(doc)
	if err != nil {
		s.recordBuildFailure(ctx, typ.Name, ReasonOther, err)
		return nil, fmt.Errorf(ErrMsgEncodeFailed, err)
	}

	stored := &domain.StoredTool{
		ID:       s.newID(),
		ToolType: typ.Name,
		Data:     data,
	}
	if err := s.repo.Insert(ctx, stored); err != nil {
		s.recordBuildFailure(ctx, typ.Name, ReasonStorage, err)
		return nil, fmt.Errorf(ErrMsgPersistFailed, stored.ID, err)
	}

	t := &Tool{ID: stored.ID, Revision: stored.Revision, Status: toolstate.StatusRebuilt, Document: doc}
	s.cache.Set(t)

	logger.FromContext(ctx).Info(LogMsgToolBuilt, "tool_id", t.ID, "tool_type", typ.Name, "durability", doc.Tool.Durability)
	s.publish(ctx, event.NewToolBuiltEvent(t.ID, doc))

	return t.clone(), nil
}

// PreviewTool renders the base data of any material combination without
// checking it against the part slots. Nothing is stored.
func (s *service) PreviewTool(_ context.Context, toolType string, materialIDs []string) (*domain.ToolDocument, error) {
	typ, err := s.types.Get(toolType)
	if err != nil {
		return nil, err
	}
	materials, err := s.builder.Resolve(materialIDs)
	if err != nil {
		return nil, s.withSuggestion(err)
	}
	return s.builder.RenderDocument(typ, materials), nil
}

// GetTool loads a tool, rebuilding it from its materials and modifiers.
// When the rebuild changes the stored bytes they are replaced atomically;
// when it fails the stored bytes are left untouched and the error returned.
func (s *service) GetTool(ctx context.Context, id string) (*Tool, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}

	var out *Tool
	err := s.lockManager.WithLock(id, func() error {
		t, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out.clone(), nil
}

// RepairTool consumes matching items to restore durability
func (s *service) RepairTool(ctx context.Context, id string, items []domain.ItemStack) (*RepairOutcome, error) {
	log := logger.FromContext(ctx)

	var outcome *RepairOutcome
	t, err := s.mutate(ctx, id, func(doc *domain.ToolDocument) (*domain.ToolDocument, bool, error) {
		candidates := append([]domain.ItemStack(nil), items...)
		res, err := s.repairer.Repair(doc, candidates)
		if err != nil {
			return nil, false, err
		}
		if res == nil {
			outcome = &RepairOutcome{Remaining: candidates}
			return doc, false, nil
		}
		outcome = &RepairOutcome{
			Repaired:      true,
			Remaining:     res.Remaining,
			UnitsConsumed: res.UnitsConsumed,
			Iterations:    res.Iterations,
			Restored:      res.Restored,
		}
		return res.Document, true, nil
	})
	if err != nil {
		return nil, err
	}
	outcome.Tool = t
	outcome.Remaining = nonEmptyStacks(outcome.Remaining)

	if !outcome.Repaired {
		log.Debug(LogMsgNothingRepaired, "tool_id", id)
		return outcome, nil
	}

	doc := t.Document
	log.Info(LogMsgToolRepaired, "tool_id", id, "restored", outcome.Restored, "iterations", outcome.Iterations)
	metrics.Repairs.WithLabelValues(doc.ToolType).Inc()
	s.publish(ctx, event.NewToolRepairedEvent(id, outcome.UnitsConsumed, outcome.Iterations, outcome.Restored, doc.Tool.Damage, doc.Extra.RepairCount))

	return outcome, nil
}

// DamageTool applies wear. A tool breaks when damage reaches its durability;
// a broken tool takes no further damage.
func (s *service) DamageTool(ctx context.Context, id string, amount int) (*Tool, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: damage amount must be positive", domain.ErrInvalidInput)
	}

	applied, broke := false, false
	t, err := s.mutate(ctx, id, func(doc *domain.ToolDocument) (*domain.ToolDocument, bool, error) {
		applied, broke = false, false
		if doc.Tool.Broken {
			return doc, false, nil
		}
		applied = true
		doc.Tool.Damage += amount
		if doc.Tool.Damage >= doc.Tool.Durability {
			doc.Tool.Damage = doc.Tool.Durability
			doc.Tool.Broken = true
			broke = true
		}
		return doc, true, nil
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return t, nil
	}

	logger.FromContext(ctx).Info(LogMsgToolDamaged, "tool_id", id, "amount", amount, "damage", t.Document.Tool.Damage, "broken", broke)
	s.publish(ctx, event.NewToolDamagedEvent(id, amount, t.Document.Tool.Damage, broke))
	return t, nil
}

// ApplyModifier adds one level of a modifier to the tool
func (s *service) ApplyModifier(ctx context.Context, id, modifierID string) (*Tool, error) {
	t, err := s.mutate(ctx, id, func(doc *domain.ToolDocument) (*domain.ToolDocument, bool, error) {
		if err := s.modifiers.Apply(doc, modifierID); err != nil {
			return nil, false, err
		}
		return doc, true, nil
	})
	if err != nil {
		return nil, err
	}

	level := 0
	for _, m := range t.Document.Base.Modifiers {
		if m.ID == modifierID {
			level = m.Level
		}
	}
	free := s.modifiers.FreeModifiers(t.Document)
	logger.FromContext(ctx).Info(LogMsgModifierApplied, "tool_id", id, "modifier", modifierID, "level", level, "free_modifiers", free)
	s.publish(ctx, event.NewToolModifiedEvent(id, modifierID, level, free))
	return t, nil
}

// mutateFunc changes a private copy of the document. It returns the document to
// store and whether anything changed.
type mutateFunc func(doc *domain.ToolDocument) (*domain.ToolDocument, bool, error)

// mutate runs a read-modify-write of one tool under its lock. A revision
// conflict from another writer drops the cached copy and retries on fresh state.
func (s *service) mutate(ctx context.Context, id string, fn mutateFunc) (*Tool, error) {
	var out *Tool
	err := s.lockManager.WithLock(id, func() error {
		for attempt := 1; ; attempt++ {
			current, err := s.current(ctx, id)
			if err != nil {
				return err
			}
			if current.Document == nil {
				return fmt.Errorf("%w: tool '%s'", domain.ErrNoBaseData, id)
			}

			next, changed, err := fn(current.Document.Clone())
			if err != nil {
				return err
			}
			if !changed {
				out = current
				return nil
			}

			data, err := s.codec.Encode(next)
			if err != nil {
				return fmt.Errorf(ErrMsgEncodeFailed, err)
			}

			rev, err := s.repo.Replace(ctx, id, current.Revision, data)
			if errors.Is(err, domain.ErrRevisionConflict) && attempt < MaxWriteAttempts {
				logger.FromContext(ctx).Warn(LogMsgRevisionConflict, "tool_id", id, "attempt", attempt)
				s.cache.Invalidate(id)
				continue
			}
			if err != nil {
				s.cache.Invalidate(id)
				return fmt.Errorf(ErrMsgPersistFailed, id, err)
			}

			out = &Tool{ID: id, Revision: rev, Status: toolstate.StatusRebuilt, Document: next}
			s.cache.Set(out)
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return out.clone(), nil
}

// current returns the cached tool or loads it. Callers hold the tool lock.
func (s *service) current(ctx context.Context, id string) (*Tool, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}
	return s.load(ctx, id)
}

// load reads and rebuilds a stored tool. Callers hold the tool lock.
func (s *service) load(ctx context.Context, id string) (*Tool, error) {
	log := logger.FromContext(ctx)

	for attempt := 1; ; attempt++ {
		stored, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgLoadFailed, id, err)
		}

		res, err := s.rebuilder.Rebuild(stored.Data)
		if err != nil {
			if s.hasStaleMaterials(stored.Data) {
				metrics.Rebuilds.WithLabelValues(metrics.OutcomeStale).Inc()
				log.Warn(LogMsgStaleMaterials, "tool_id", id, "tool_type", stored.ToolType, "error", err)
			} else {
				metrics.Rebuilds.WithLabelValues(metrics.OutcomeFailed).Inc()
				log.Warn(LogMsgRebuildFailed, "tool_id", id, "error", err)
			}
			return nil, err
		}

		if res.Status == toolstate.StatusNothingToRebuild {
			metrics.Rebuilds.WithLabelValues(metrics.OutcomeNothing).Inc()
			log.Debug(LogMsgNothingToRebuild, "tool_id", id)
			return &Tool{ID: id, Revision: stored.Revision, Status: res.Status}, nil
		}

		t := &Tool{ID: id, Revision: stored.Revision, Status: res.Status, Document: res.Document}
		if !res.Changed {
			metrics.Rebuilds.WithLabelValues(metrics.OutcomeUnchanged).Inc()
			s.cache.Set(t)
			return t, nil
		}

		rev, err := s.repo.Replace(ctx, id, stored.Revision, res.Data)
		if errors.Is(err, domain.ErrRevisionConflict) && attempt < MaxWriteAttempts {
			log.Warn(LogMsgRevisionConflict, "tool_id", id, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf(ErrMsgPersistFailed, id, err)
		}

		t.Revision = rev
		metrics.Rebuilds.WithLabelValues(metrics.OutcomeRebuilt).Inc()
		log.Info(LogMsgToolRebuilt, "tool_id", id, "revision", rev)
		s.cache.Set(t)
		s.publish(ctx, event.NewToolRebuiltEvent(id, rev))
		return t, nil
	}
}

// hasStaleMaterials reports whether data decodes to a tool of a known type
// whose stored materials the current registry no longer accepts.
func (s *service) hasStaleMaterials(data []byte) bool {
	doc, err := s.codec.Decode(data)
	if err != nil {
		return false
	}
	typ, err := s.types.Get(doc.ToolType)
	if err != nil {
		return false
	}
	return !typ.HasValidMaterials(doc, s.materials)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWithRetry(ctx, evt)
}

// withSuggestion fills in the closest registered id when err names an unknown material
func (s *service) withSuggestion(err error) error {
	var unknown *domain.UnknownMaterialError
	if errors.As(err, &unknown) && unknown.Suggestion == "" {
		unknown.Suggestion, _ = s.materials.SuggestMaterial(unknown.ID)
	}
	return err
}

func buildFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownToolType):
		return ReasonUnknownToolType
	case errors.Is(err, domain.ErrUnknownMaterial):
		return ReasonUnknownMaterial
	case errors.Is(err, domain.ErrInvalidComposition):
		return ReasonInvalidComposition
	default:
		return ReasonOther
	}
}

func (s *service) recordBuildFailure(ctx context.Context, toolType, reason string, err error) {
	metrics.BuildFailures.WithLabelValues(reason).Inc()
	logger.FromContext(ctx).Info(LogMsgToolBuildRejected, "tool_type", toolType, "reason", reason, "error", err)
}

func nonEmptyStacks(stacks []domain.ItemStack) []domain.ItemStack {
	out := make([]domain.ItemStack, 0, len(stacks))
	for _, st := range stacks {
		if st.Quantity > 0 && st.Item != "" {
			out = append(out, st)
		}
	}
	return out
}
