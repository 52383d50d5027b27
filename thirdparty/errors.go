package thirdparty

import (
	"errors"
	"fmt"
)

// ErrorKind classifies mapping configuration and evaluation errors.
type ErrorKind int64

const (
	StructureError ErrorKind = iota + 1
	UnknownFieldError
	TypeIncompatibilityError
	RequiredFieldMissingError
	SchemaAccessError
)

var (
	ErrMappingStructure     = errors.New("mapping structure error")
	ErrUnknownField         = errors.New("unknown field")
	ErrTypeIncompatibility  = errors.New("type incompatibility")
	ErrRequiredFieldMissing = errors.New("required field missing")
	ErrSchemaAccess         = errors.New("schema access error")

	ErrIntegrationNotFound = errors.New("integration not found")
	ErrInvalidOptions      = errors.New("invalid options")
)

// IntegrationNotFoundError matches ErrIntegrationNotFound with errors.Is.
type IntegrationNotFoundError struct {
	ID string
}

func (e IntegrationNotFoundError) Error() string {
	return fmt.Sprintf("Integration not found: %s", e.ID)
}

func (e IntegrationNotFoundError) Is(target error) bool {
	return target == ErrIntegrationNotFound
}

func (k ErrorKind) sentinel() error {
	switch k {
	case StructureError:
		return ErrMappingStructure
	case UnknownFieldError:
		return ErrUnknownField
	case TypeIncompatibilityError:
		return ErrTypeIncompatibility
	case RequiredFieldMissingError:
		return ErrRequiredFieldMissing
	case SchemaAccessError:
		return ErrSchemaAccess
	default:
		return nil
	}
}

// Code is the machine readable code used in API error envelopes.
func (k ErrorKind) Code() string {
	switch k {
	case StructureError:
		return "mapping_structure"
	case UnknownFieldError:
		return "unknown_field"
	case TypeIncompatibilityError:
		return "type_incompatibility"
	case RequiredFieldMissingError:
		return "required_field_missing"
	case SchemaAccessError:
		return "schema_access"
	default:
		return "mapping_error"
	}
}

// MappingError is returned by the validators and by the outbound required
// field check. Scope names the mapping list ("Search query mapping",
// "Output node mapping") and Index the offending entry, or -1.
type MappingError struct {
	Kind    ErrorKind
	Scope   string
	Index   int
	Field   string
	Message string
}

func (e *MappingError) Error() string {
	if e.Scope == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Scope, e.Message)
}

func (e *MappingError) Unwrap() error {
	return e.Kind.sentinel()
}

func mappingError(kind ErrorKind, scope string, index int, field string, format string, args ...interface{}) *MappingError {
	return &MappingError{
		Kind:    kind,
		Scope:   scope,
		Index:   index,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// APIError is the error envelope attached to API responses.
type APIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsAPIError maps any error onto the API error envelope. Errors without a
// more specific code get fallbackCode.
func AsAPIError(err error, fallbackCode string) *APIError {
	if err == nil {
		return nil
	}
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return &apiErr
	}
	var mappingErr *MappingError
	if errors.As(err, &mappingErr) {
		return &APIError{Code: mappingErr.Kind.Code(), Message: err.Error()}
	}
	switch {
	case errors.Is(err, ErrIntegrationNotFound):
		return &APIError{Code: "not_found", Message: err.Error()}
	case errors.Is(err, ErrInvalidOptions):
		return &APIError{Code: "invalid_parameter", Message: err.Error()}
	default:
		return &APIError{Code: fallbackCode, Message: err.Error()}
	}
}
