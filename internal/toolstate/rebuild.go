package toolstate

import (
	"bytes"
	"fmt"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/modifier"
	"github.com/osse101/ToolForge_Go/internal/tool"
	"github.com/osse101/ToolForge_Go/internal/utils"
)

// Status is the outcome of a rebuild that did not fail
type Status int

const (
	// StatusRebuilt means the document was recomputed from its base data
	StatusRebuilt Status = iota + 1
	// StatusNothingToRebuild means the bytes carry no base data; they are returned unchanged
	StatusNothingToRebuild
)

func (s Status) String() string {
	switch s {
	case StatusRebuilt:
		return "rebuilt"
	case StatusNothingToRebuild:
		return "nothing_to_rebuild"
	default:
		return "unknown"
	}
}

// RebuildResult is the outcome of Rebuild
type RebuildResult struct {
	Status   Status
	Data     []byte
	Document *domain.ToolDocument
	// Changed reports whether Data differs from the input bytes
	Changed bool
}

// TypeLookup resolves tool types by name
type TypeLookup interface {
	Get(name string) (*tool.Type, error)
}

// Rebuilder recomputes tool documents from their stored materials and modifiers.
type Rebuilder struct {
	codec     *Codec
	builder   *tool.Builder
	types     TypeLookup
	modifiers modifier.Engine
}

// NewRebuilder creates a rebuilder
func NewRebuilder(codec *Codec, builder *tool.Builder, types TypeLookup, modifiers modifier.Engine) *Rebuilder {
	return &Rebuilder{
		codec:     codec,
		builder:   builder,
		types:     types,
		modifiers: modifiers,
	}
}

// Codec returns the codec used for decoding and encoding
func (r *Rebuilder) Codec() *Codec {
	return r.codec
}

// Rebuild decodes data, recomputes the document and encodes it again.
// On error the input bytes are never touched and no result is returned, so
// callers can keep the prior state as is.
func (r *Rebuilder) Rebuild(data []byte) (*RebuildResult, error) {
	doc, err := r.codec.Decode(data)
	if err != nil {
		if IsNothingToRebuild(err) {
			return &RebuildResult{Status: StatusNothingToRebuild, Data: data}, nil
		}
		return nil, err
	}

	rebuilt, err := r.RebuildDocument(doc)
	if err != nil {
		return nil, err
	}

	out, err := r.codec.Encode(rebuilt)
	if err != nil {
		return nil, err
	}

	return &RebuildResult{
		Status:   StatusRebuilt,
		Data:     out,
		Document: rebuilt,
		Changed:  !bytes.Equal(out, data),
	}, nil
}

// RebuildDocument recomputes a decoded document and returns a new one.
//
// The stats are rebuilt from the stored materials, modifiers are reapplied in
// their stored order, then the live wear state and extra data are carried
// over. Damage is clamped to the rebuilt maximum durability.
func (r *Rebuilder) RebuildDocument(doc *domain.ToolDocument) (*domain.ToolDocument, error) {
	if doc == nil || doc.Base.Materials == nil {
		return nil, domain.ErrNoBaseData
	}

	typ, err := r.types.Get(doc.ToolType)
	if err != nil {
		return nil, err
	}

	fresh, err := r.builder.BuildFromIDs(typ, doc.Base.Materials)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild %s: %w", doc.ToolType, err)
	}

	fresh.Base.Modifiers = append([]domain.ModifierEntry{}, doc.Base.Modifiers...)
	if err := r.modifiers.Reapply(fresh); err != nil {
		return nil, fmt.Errorf("failed to reapply modifiers: %w", err)
	}

	if !doc.IsMissing(domain.RegionToolData) {
		fresh.Tool.Damage = utils.ClampInt(doc.Tool.Damage, 0, fresh.Tool.Durability)
		fresh.Tool.Broken = doc.Tool.Broken
	}
	if !doc.IsMissing(domain.RegionExtraData) {
		fresh.Extra = doc.Clone().Extra
	}

	return fresh, nil
}
