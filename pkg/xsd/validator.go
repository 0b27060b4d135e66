// Package xsd validates serialized SEPA documents against the XSD definition
// of their schema, using libxml2.
package xsd

import (
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/lestrrat-go/libxml2"
	libxsd "github.com/lestrrat-go/libxml2/xsd"

	"github.com/amoniacou/sepa-king/pkg/sepa"
)

// FileValidator locates schema definitions on a file system by schema
// identifier (<schema>.xsd). Parsed schemas are cached and shared read-only
// across validations, so one validator can serve many messages.
type FileValidator struct {
	fsys fs.FS

	mu    sync.Mutex
	cache map[sepa.Schema]*libxsd.Schema
}

// NewFileValidator creates a validator reading schema definitions from dir.
func NewFileValidator(dir string) *FileValidator {
	return NewFileValidatorFS(os.DirFS(dir))
}

// NewFileValidatorFS creates a validator reading schema definitions from fsys.
func NewFileValidatorFS(fsys fs.FS) *FileValidator {
	return &FileValidator{
		fsys:  fsys,
		cache: make(map[sepa.Schema]*libxsd.Schema),
	}
}

// Validate checks the document against the schema definition and returns the
// violation messages verbatim. A missing or unparsable definition is an
// error, not a violation.
func (v *FileValidator) Validate(schema sepa.Schema, document []byte) ([]string, error) {
	s, err := v.load(schema)
	if err != nil {
		return nil, err
	}

	doc, err := libxml2.Parse(document)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	defer doc.Free()

	if err := s.Validate(doc); err != nil {
		if sverr, ok := err.(libxsd.SchemaValidationError); ok {
			violations := make([]string, 0, len(sverr.Errors()))
			for _, e := range sverr.Errors() {
				violations = append(violations, e.Error())
			}
			return violations, nil
		}
		return nil, fmt.Errorf("validate against %s: %w", schema, err)
	}
	return nil, nil
}

func (v *FileValidator) load(schema sepa.Schema) (*libxsd.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.cache[schema]; ok {
		return s, nil
	}
	data, err := fs.ReadFile(v.fsys, string(schema)+".xsd")
	if err != nil {
		return nil, fmt.Errorf("schema definition for %s: %w", schema, err)
	}
	s, err := libxsd.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema definition for %s: %w", schema, err)
	}
	v.cache[schema] = s
	return s, nil
}
