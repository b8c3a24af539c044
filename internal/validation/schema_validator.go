package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrSchemaViolation wraps every failed instance validation
var ErrSchemaViolation = errors.New("schema validation failed")

// SchemaValidator checks a JSON document against a schema file
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaPath string) error
}

// validator compiles each schema once. jsonschema.Compiler is not safe for
// concurrent use, so compilation is serialised while lookups are not.
type validator struct {
	source  fs.FS
	printer *message.Printer

	compileMu sync.Mutex
	compiler  *jsonschema.Compiler
	schemas   sync.Map // schemaPath -> *jsonschema.Schema
}

// NewSchemaValidator reads schema files from source; paths are relative to its root
func NewSchemaValidator(source fs.FS) SchemaValidator {
	return &validator{
		source:   source,
		printer:  message.NewPrinter(language.English),
		compiler: jsonschema.NewCompiler(),
	}
}

func (v *validator) ValidateBytes(data []byte, schemaPath string) error {
	schema, err := v.schema(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaPath, err)
	}

	// UnmarshalJSON keeps numbers as json.Number so integer keywords see 131, not 131.0
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}

	err = schema.Validate(doc)
	var verr *jsonschema.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &verr):
		return fmt.Errorf("%w:\n%s", ErrSchemaViolation, strings.Join(v.leafMessages(verr, nil), "\n"))
	default:
		return fmt.Errorf("validation error: %w", err)
	}
}

func (v *validator) schema(path string) (*jsonschema.Schema, error) {
	if s, ok := v.schemas.Load(path); ok {
		return s.(*jsonschema.Schema), nil
	}

	v.compileMu.Lock()
	defer v.compileMu.Unlock()
	if s, ok := v.schemas.Load(path); ok {
		return s.(*jsonschema.Schema), nil
	}

	raw, err := fs.ReadFile(v.source, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	if err := v.compiler.AddResource(path, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	s, err := v.compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	v.schemas.Store(path, s)
	return s, nil
}

// leafMessages keeps only the innermost causes; the wrappers above them
// repeat the same location with less detail.
func (v *validator) leafMessages(err *jsonschema.ValidationError, out []string) []string {
	if len(err.Causes) > 0 {
		for _, c := range err.Causes {
			out = v.leafMessages(c, out)
		}
		return out
	}

	at := "/" + strings.Join(err.InstanceLocation, "/")
	if err.ErrorKind == nil {
		return append(out, fmt.Sprintf("  - at %s: validation failed", at))
	}
	keyword := strings.Join(err.ErrorKind.KeywordPath(), ".")
	return append(out, fmt.Sprintf("  - at %s: %s: %s", at, keyword, err.ErrorKind.LocalizedString(v.printer)))
}
