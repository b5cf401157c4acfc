package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
// This makes error creation consistent and discoverable throughout the codebase.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError, // Default severity
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		cause:    err,
		context:  make(ErrorContext),
	}
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithContextMap adds multiple context values.
func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the pipeline's error taxonomy.

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ContentRootError marks the content root as missing or unreadable. Always fatal:
// the build aborts before producing any output.
func ContentRootError(message string) *ErrorBuilder {
	return NewError(CategoryContent, message).Fatal()
}

// DocumentError creates a page-scoped content error (page skipped, build continues).
func DocumentError(message string) *ErrorBuilder {
	return NewError(CategoryContent, message)
}

// MissingLayoutError marks a page whose named layout has no registered render
// function. Page-scoped: the page is skipped and the build continues.
func MissingLayoutError(name string) *ErrorBuilder {
	return NewError(CategoryLayout, "no layout registered under name").WithContext("layout", name)
}

// ImageSourceError marks an image directive whose source file does not exist.
// Directive-scoped: the element is left unmodified.
func ImageSourceError(path string) *ErrorBuilder {
	return NewError(CategoryImage, "image source not found").Warning().WithContext("source", path)
}

// VariantWriteError marks a failed derived-image write. Variant-scoped: only
// that variant is dropped.
func VariantWriteError(message string) *ErrorBuilder {
	return NewError(CategoryImage, message)
}

// RouteCollisionError marks a routeKey overwrite. The later entry wins.
func RouteCollisionError(route string) *ErrorBuilder {
	return NewError(CategoryRoute, "route collision, later entry wins").Warning().WithContext("route", route)
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// HistoryError creates a build-history store error.
func HistoryError(message string) *ErrorBuilder {
	return NewError(CategoryHistory, message).Warning()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
