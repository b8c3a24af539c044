package material

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osse101/ToolForge_Go/configs"
	"github.com/osse101/ToolForge_Go/internal/domain"
	"github.com/osse101/ToolForge_Go/internal/logger"
	"github.com/osse101/ToolForge_Go/internal/utils"
	"github.com/osse101/ToolForge_Go/internal/validation"
)

// Pack represents the JSON configuration for materials and their traits
type Pack struct {
	Version   string            `json:"version"`
	Traits    []domain.Trait    `json:"traits"`
	Materials []domain.Material `json:"materials"`

	// Checksum is the sha256 of the raw bytes the pack was parsed from
	Checksum string `json:"-"`
}

// Registrar receives validated definitions. Traits are registered before materials.
type Registrar interface {
	RegisterTrait(t domain.Trait) error
	RegisterMaterial(m domain.Material) error
}

// Loader handles loading and validating material packs
type Loader interface {
	Load(path string) (*Pack, error)
	Validate(pack *Pack) error
	Register(ctx context.Context, pack *Pack, reg Registrar) error
}

type materialLoader struct {
	embedded        fs.FS
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a loader reading from disk first and falling back to embedded.
// A nil embedded FS means disk only.
func NewLoader(embedded fs.FS) Loader {
	return &materialLoader{
		embedded:        embedded,
		schemaValidator: validation.NewSchemaValidator(configs.FS),
	}
}

// Load reads, schema-validates and parses a material pack. Packs ending in
// .yaml or .yml are accepted and checked against the same schema.
func (l *materialLoader) Load(path string) (*Pack, error) {
	raw, err := utils.ReadFileOrFS(l.embedded, path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}

	data := raw
	if isYAML(path) {
		if data, err = yamlToJSON(raw); err != nil {
			return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
		}
	}

	if err := l.schemaValidator.ValidateBytes(data, configs.MaterialsSchemaPath); err != nil {
		return nil, fmt.Errorf(ErrMsgSchemaFailed, path, err)
	}

	var pack Pack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}

	sum := sha256.Sum256(raw)
	pack.Checksum = hex.EncodeToString(sum[:])

	return &pack, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Validate checks the semantic rules the schema cannot express
func (l *materialLoader) Validate(pack *Pack) error {
	if pack == nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidMaterialDef, ErrMsgConfigNil)
	}
	if len(pack.Materials) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidMaterialDef, ErrMsgNoMaterialsDefined)
	}

	traits := make(map[string]bool, len(pack.Traits))
	for i, t := range pack.Traits {
		if t.ID == "" {
			return fmt.Errorf(ErrFmtTraitAtIndexEmpty, domain.ErrInvalidMaterialDef, i)
		}
		if traits[t.ID] {
			return fmt.Errorf("%w: '%s'", domain.ErrDuplicateTrait, t.ID)
		}
		traits[t.ID] = true
	}

	ids := make(map[string]bool, len(pack.Materials))
	for i := range pack.Materials {
		m := &pack.Materials[i]
		if m.ID == "" {
			return fmt.Errorf(ErrFmtMaterialAtIndexEmpty, domain.ErrInvalidMaterialDef, i)
		}
		if ids[m.ID] {
			return fmt.Errorf("%w: '%s'", domain.ErrDuplicateMaterial, m.ID)
		}
		ids[m.ID] = true

		if err := validateMaterial(m, traits); err != nil {
			return err
		}
	}

	return nil
}

func validateMaterial(m *domain.Material, traits map[string]bool) error {
	s := m.Stats
	if s.Head == nil && s.Handle == nil && s.Extra == nil {
		return fmt.Errorf(ErrFmtMaterialNoStats, domain.ErrInvalidMaterialDef, m.ID)
	}

	if s.Head != nil {
		switch {
		case s.Head.Durability < 0:
			return fmt.Errorf(ErrFmtMaterialNegative, domain.ErrInvalidMaterialDef, m.ID, "head durability")
		case s.Head.MiningSpeed < 0:
			return fmt.Errorf(ErrFmtMaterialNegative, domain.ErrInvalidMaterialDef, m.ID, "mining speed")
		case s.Head.HarvestLevel < 0:
			return fmt.Errorf(ErrFmtMaterialNegative, domain.ErrInvalidMaterialDef, m.ID, "harvest level")
		case s.Head.Attack < 0:
			return fmt.Errorf(ErrFmtMaterialNegative, domain.ErrInvalidMaterialDef, m.ID, "attack")
		}
	}
	if s.Handle != nil {
		if s.Handle.Modifier < 0 {
			return fmt.Errorf(ErrFmtMaterialNegative, domain.ErrInvalidMaterialDef, m.ID, "handle modifier")
		}
		if s.Handle.ModifierSlots < 0 {
			return fmt.Errorf(ErrFmtMaterialNegative, domain.ErrInvalidMaterialDef, m.ID, "modifier slots")
		}
	}
	if s.Extra != nil && s.Extra.ExtraDurability < 0 {
		return fmt.Errorf(ErrFmtMaterialNegative, domain.ErrInvalidMaterialDef, m.ID, "extra durability")
	}

	for i, rule := range m.Match {
		if rule.Item == "" || rule.Value <= 0 {
			return fmt.Errorf(ErrFmtMaterialBadMatch, domain.ErrInvalidMaterialDef, m.ID, i)
		}
	}

	for kind, list := range m.Traits {
		if !s.Has(kind) {
			return fmt.Errorf(ErrFmtMaterialTraitKind, domain.ErrInvalidMaterialDef, m.ID, kind)
		}
		for _, id := range list {
			if !traits[id] {
				return fmt.Errorf(ErrFmtMaterialUnknownTrait, domain.ErrUnknownTrait, m.ID, id)
			}
		}
	}

	return nil
}

// Register validates the pack and hands every definition to reg
func (l *materialLoader) Register(ctx context.Context, pack *Pack, reg Registrar) error {
	log := logger.FromContext(ctx)

	if err := l.Validate(pack); err != nil {
		return err
	}

	for _, t := range pack.Traits {
		if err := reg.RegisterTrait(t); err != nil {
			return fmt.Errorf(ErrFmtRegisterFailed, "trait", t.ID, err)
		}
	}
	for _, m := range pack.Materials {
		if err := reg.RegisterMaterial(m); err != nil {
			return fmt.Errorf(ErrFmtRegisterFailed, "material", m.ID, err)
		}
	}

	log.Info(LogMsgPackRegistered,
		"version", pack.Version,
		"traits", len(pack.Traits),
		"materials", len(pack.Materials),
		"checksum", pack.Checksum)

	return nil
}

// LoadInto is the startup path: load, validate and register in one call
func LoadInto(ctx context.Context, loader Loader, path string, reg Registrar) (*Pack, error) {
	pack, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug(LogMsgPackLoaded, "path", path, "checksum", pack.Checksum)

	if err := loader.Register(ctx, pack, reg); err != nil {
		return nil, err
	}
	return pack, nil
}
