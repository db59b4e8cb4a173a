package cmd

import (
	"fmt"
	"os"

	"golang-ledger-summary-service/pkg/errors"
	"golang-ledger-summary-service/pkg/logger"

	"github.com/spf13/viper"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints a user-friendly message and returns the exit code.
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Error("Command failed")

	if perr, ok := errors.AsPipelineError(err); ok {
		return h.handlePipelineError(perr)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func (h *CLIErrorHandler) handlePipelineError(err *errors.PipelineError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nContext:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", categoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.ExitCode()
}

func categoryHelp(category errors.Category) string {
	switch category {
	case errors.CategoryNotFound:
		return "The export for the requested month was not found in storage. Check the month and the configured prefixes."
	case errors.CategorySchema:
		return "The export does not have the expected column layout. Compare the file against a known-good month."
	case errors.CategoryData:
		return "A row in the export could not be parsed. Fix the source data; the whole request is rejected."
	case errors.CategoryConfiguration:
		return "The summarizer configuration is incomplete or invalid. Run with --verbose for details."
	default:
		return "An unexpected error occurred. Run with --verbose for details."
	}
}
