package sepa

import (
	"fmt"
	"strings"
)

// FieldError is a single validation failure scoped to a named field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

// ValidationError reports that an account, a transaction or the message as a
// whole failed construction-time checks. Errors keeps the order in which the
// failures were detected.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.String()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// UnknownSchemaError reports a schema identifier outside the enumerated set
// supported by the message family.
type UnknownSchemaError struct {
	Schema Schema
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("schema %s is unknown", e.Schema)
}

// SchemaIncompatibleError reports that the message data violates the
// compatibility rules of the requested schema.
type SchemaIncompatibleError struct {
	Schema Schema
	Reason string
}

func (e *SchemaIncompatibleError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("incompatible with schema %s", e.Schema)
	}
	return fmt.Sprintf("incompatible with schema %s: %s", e.Schema, e.Reason)
}

// SchemaViolationError reports that the serialized document failed validation
// against the schema definition. Violations carries every reported violation
// message verbatim.
type SchemaViolationError struct {
	Schema     Schema
	Violations []string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("document violates schema %s: %s", e.Schema, strings.Join(e.Violations, ", "))
}
