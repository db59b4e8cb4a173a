// Package errors defines the error taxonomy for the ledger summary pipeline.
//
// Every failure surfaced by the pipeline falls into one of a small set of
// categories: a source dataset is missing (NotFound), an expected column is
// absent (Schema), a row value cannot be parsed (Data), the configuration is
// unusable (Configuration), or something unexpected happened (Internal).
// Errors carry a machine-readable category and code, an optional suggestion
// for the operator, and arbitrary context pairs.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Category groups errors by failure class.
type Category string

const (
	CategoryNotFound      Category = "not_found"
	CategorySchema        Category = "schema"
	CategoryData          Category = "data"
	CategoryConfiguration Category = "configuration"
	CategoryInternal      Category = "internal"
)

// Code identifies a specific failure within a category.
type Code string

const (
	// Not-found codes
	CodeDatasetMissing Code = "dataset_missing"
	CodeSheetMissing   Code = "sheet_missing"

	// Schema codes
	CodeMissingColumn Code = "missing_column"
	CodeEmptyDataset  Code = "empty_dataset"

	// Data codes
	CodeInvalidDate   Code = "invalid_date"
	CodeInvalidAmount Code = "invalid_amount"
	CodeInvalidValue  Code = "invalid_value"

	// Configuration codes
	CodeMissingSetting Code = "missing_setting"
	CodeInvalidSetting Code = "invalid_setting"

	// Internal codes
	CodeUnexpected Code = "unexpected"
)

// PipelineError is the error type used throughout the service.
type PipelineError struct {
	Category   Category          `json:"category"`
	Code       Code              `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context carries additional key/value detail about the error.
type Context map[string]interface{}

func (e *PipelineError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// ExitCode maps the error category to a CLI exit code.
func (e *PipelineError) ExitCode() int {
	switch e.Category {
	case CategoryNotFound:
		return 2
	case CategorySchema, CategoryData:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext attaches a key/value pair to the error.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion attaches an operator-facing hint to the error.
func (e *PipelineError) WithSuggestion(suggestion string) *PipelineError {
	e.Suggestion = suggestion
	return e
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// New creates a PipelineError with a captured stack trace.
func New(category Category, code Code, message string) *PipelineError {
	return &PipelineError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap attaches pipeline error context to an existing error.
func Wrap(err error, category Category, code Code, message string) *PipelineError {
	if err == nil {
		return nil
	}
	return &PipelineError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// NotFoundError reports a source dataset that could not be located.
func NotFoundError(name string, err error) *PipelineError {
	message := fmt.Sprintf("source dataset not found: %s", name)
	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryNotFound, CodeDatasetMissing, message)
	} else {
		result = New(CategoryNotFound, CodeDatasetMissing, message)
	}
	return result.
		WithSuggestion("verify the dataset was exported for the requested month").
		WithContext("dataset", name)
}

// SchemaError reports a dataset missing one or more required columns.
func SchemaError(dataset string, missing []string) *PipelineError {
	return New(CategorySchema, CodeMissingColumn,
		fmt.Sprintf("dataset %s is missing required columns: %s", dataset, strings.Join(missing, ", "))).
		WithSuggestion("check that the export was produced with the expected column layout").
		WithContext("dataset", dataset).
		WithContext("missing_columns", missing)
}

// DataError reports an unparseable value in a specific row and column.
func DataError(code Code, dataset string, row int, column, value string, err error) *PipelineError {
	message := fmt.Sprintf("invalid value in %s at row %d, column %q: %q", dataset, row, column, value)
	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryData, code, message)
	} else {
		result = New(CategoryData, code, message)
	}
	return result.
		WithSuggestion("correct the source row; malformed rows fail the whole request").
		WithContext("dataset", dataset).
		WithContext("row", row).
		WithContext("column", column).
		WithContext("value", value)
}

// ConfigurationError reports an unusable setting.
func ConfigurationError(code Code, setting string, err error) *PipelineError {
	message := fmt.Sprintf("configuration error for %q", setting)
	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}
	return result.WithContext("setting", setting)
}

// InternalError reports an unexpected failure during an operation.
func InternalError(operation string, err error) *PipelineError {
	message := fmt.Sprintf("unexpected error during %s", operation)
	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpected, message)
	} else {
		result = New(CategoryInternal, CodeUnexpected, message)
	}
	return result.WithContext("operation", operation)
}

// AsPipelineError extracts a PipelineError from an error chain.
func AsPipelineError(err error) (*PipelineError, bool) {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, category Category) bool {
	if perr, ok := AsPipelineError(err); ok {
		return perr.Category == category
	}
	return false
}

// IsNotFound reports whether err is a missing-dataset error.
func IsNotFound(err error) bool { return IsCategory(err, CategoryNotFound) }

// IsSchema reports whether err is a schema error.
func IsSchema(err error) bool { return IsCategory(err, CategorySchema) }

// IsData reports whether err is a row-data error.
func IsData(err error) bool { return IsCategory(err, CategoryData) }
