// Package toolstate encodes, decodes and rebuilds persisted tool documents.
package toolstate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/validation"
)

// Codec converts tool documents to and from their persisted JSON form.
type Codec struct {
	schemas validation.SchemaValidator
}

// NewCodec creates a codec. With a nil validator documents are only checked structurally.
func NewCodec(schemas validation.SchemaValidator) *Codec {
	return &Codec{schemas: schemas}
}

// Encode serializes the document at the current schema version.
// The output is deterministic for equal documents.
func (c *Codec) Encode(doc *domain.ToolDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	out := *doc
	out.Version = domain.ToolDocumentVersion

	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool document: %w", err)
	}
	return data, nil
}

// Decode parses persisted bytes of any known schema version into a current document.
//
// A document without base data fails with ErrNoBaseData. An absent extraData
// region, and a toolData or toolDataOriginal region that is absent or
// corrupt, is listed in Missing so a rebuild can reconstruct it. Anything
// else that cannot be understood fails with ErrMalformedState.
func (c *Codec) Decode(data []byte) (*domain.ToolDocument, error) {
	var regions map[string]json.RawMessage
	if err := json.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
	}
	if regions == nil {
		return nil, fmt.Errorf("%w: document is null", domain.ErrMalformedState)
	}

	version, err := documentVersion(regions)
	if err != nil {
		return nil, err
	}

	switch version {
	case LegacyDocumentVersion:
		return decodeLegacy(data)
	case domain.ToolDocumentVersion:
		return c.decodeCurrent(data, regions)
	default:
		return nil, fmt.Errorf("%w: unsupported document version %d", domain.ErrMalformedState, version)
	}
}

// storedDocument holds back the computed regions so each is checked alone.
// The outer fields shadow the embedded ones of the same JSON name.
type storedDocument struct {
	domain.ToolDocument
	Tool     json.RawMessage `json:"toolData"`
	Original json.RawMessage `json:"toolDataOriginal"`
}

func (c *Codec) decodeCurrent(data []byte, regions map[string]json.RawMessage) (*domain.ToolDocument, error) {
	if isAbsent(regions[domain.RegionBaseData]) {
		return nil, domain.ErrNoBaseData
	}

	if err := c.validate(data, ToolStateSchemaPath); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
	}

	var stored storedDocument
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedState, err)
	}
	doc := stored.ToolDocument
	doc.Version = domain.ToolDocumentVersion

	// Computed regions are rebuilt on load, so a bad one is dropped rather
	// than failing the whole document.
	if !c.decodeToolData(stored.Tool, &doc.Tool) {
		doc.Missing = append(doc.Missing, domain.RegionToolData)
	}
	if !c.decodeToolData(stored.Original, &doc.Original) {
		doc.Missing = append(doc.Missing, domain.RegionToolDataOriginal)
	}
	if isAbsent(regions[domain.RegionExtraData]) {
		doc.Missing = append(doc.Missing, domain.RegionExtraData)
	}
	return &doc, nil
}

// decodeToolData fills dst from one computed region. It reports false, leaving
// dst zeroed, when the region is absent or does not hold valid tool data.
func (c *Codec) decodeToolData(raw json.RawMessage, dst *domain.ToolData) bool {
	*dst = domain.ToolData{}
	if isAbsent(raw) {
		return false
	}
	if err := c.validate(raw, ToolDataSchemaPath); err != nil {
		return false
	}
	var td domain.ToolData
	if err := json.Unmarshal(raw, &td); err != nil {
		return false
	}
	*dst = td
	return true
}

func (c *Codec) validate(data []byte, schemaPath string) error {
	if c.schemas == nil {
		return nil
	}
	return c.schemas.ValidateBytes(data, schemaPath)
}

// documentVersion sniffs the layout: an explicit version wins, otherwise a
// flat materials list marks a legacy document.
func documentVersion(regions map[string]json.RawMessage) (int, error) {
	raw, ok := regions[keyVersion]
	if !ok || isAbsent(raw) {
		if _, legacy := regions[keyLegacyMaterials]; legacy {
			return LegacyDocumentVersion, nil
		}
		return domain.ToolDocumentVersion, nil
	}

	var version int
	if err := json.Unmarshal(raw, &version); err != nil {
		return 0, fmt.Errorf("%w: bad version field: %v", domain.ErrMalformedState, err)
	}
	return version, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// IsNothingToRebuild reports whether err means the bytes carry no base data.
func IsNothingToRebuild(err error) bool {
	return errors.Is(err, domain.ErrNoBaseData)
}
