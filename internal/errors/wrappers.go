package errors

import "fmt"

// Common constructors used across the model, query and loader packages

// NewPreconditionError reports a programmer error detected before traversal
func NewPreconditionError(operation, reason string) *BaseError {
	return Newf(PreconditionErrorCode, "%s: %s", operation, reason).
		WithContext("operation", operation)
}

// NewUnsupportedOwnerError reports an annotation owner whose kind has no resolution strategy
func NewUnsupportedOwnerError(kind string) *BaseError {
	return Newf(UnsupportedOwnerErrorCode, "annotations cannot be queried for owner kind %q", kind).
		WithContext("kind", kind).
		WithSuggestion("pass a type, method, field or method parameter as the owner")
}

// NewNotFoundError reports a missing element in the type model
func NewNotFoundError(what, name string) *BaseError {
	return Newf(NotFoundErrorCode, "%s '%s' not found", what, name).
		WithContext("name", name)
}

// NewDuplicateError reports two declarations sharing one qualified name
func NewDuplicateError(what, name string) *BaseError {
	return Newf(DuplicateErrorCode, "%s '%s' is already declared", what, name).
		WithContext("name", name)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause)
}

// WrapLoadError wraps errors raised while reading a type model document
func WrapLoadError(path string, cause error) *BaseError {
	return Wrap(LoadErrorCode, "failed to load type model", cause).
		WithLocation(SourceLocation{File: path})
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}
