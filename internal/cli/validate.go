package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/ecsaccess/internal/compiler"
	"github.com/roach88/ecsaccess/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                       `json:"valid"`
	Schedules []string                   `json:"schedules,omitempty"`
	Errors    []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schedules-dir>",
		Short: "Validate schedules without analysing them",
		Long: `Validate CUE schedules without running the conflict analysis.

Checks that every schedule compiles, that names are non-empty and unique,
that param, data term and filter kinds are known, and that before/after
constraints name existing systems without forming a cycle.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadSchedules(dir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	validationErrors := loadErrorsToValidation(loadErrors)
	for i := range loadResult.Schedules {
		s := &loadResult.Schedules[i]
		formatter.VerboseLog("Validating schedule: %s (%d systems)", s.Name, len(s.Systems))
		validationErrors = append(validationErrors, validateSchedule(s)...)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	return outputValidateSuccess(formatter, loadResult.Schedules)
}

// validateSchedule runs schema validation and scopes each field path to
// the schedule.
func validateSchedule(s *ir.Schedule) []compiler.ValidationError {
	errs := compiler.Validate(s)
	for i := range errs {
		errs[i].Field = "schedule." + s.Name + "." + errs[i].Field
	}
	return errs
}

// loadErrorsToValidation converts per-schedule compile failures.
func loadErrorsToValidation(errs []error) []compiler.ValidationError {
	var out []compiler.ValidationError
	for _, err := range errs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			out = append(out, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    getLineFromCuePos(loadErr.Pos),
			})
			continue
		}
		out = append(out, compiler.ValidationError{
			Field:   "load",
			Message: err.Error(),
			Code:    ErrCodeGeneric,
		})
	}
	return out
}

// getLineFromCuePos extracts line number from a token.Pos.
func getLineFromCuePos(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, schedules []ir.Schedule) error {
	names := make([]string, len(schedules))
	for i, s := range schedules {
		names[i] = s.Name
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Schedules: names})
	}

	fmt.Fprintf(formatter.Writer, "✓ All schedules valid (%d)\n", len(schedules))
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		if err := formatter.Respond(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// ValidateSchedulesDir loads and validates every schedule in dir.
// The error is set only when the directory cannot be loaded at all.
func ValidateSchedulesDir(dir string) (*LoadResult, []compiler.ValidationError, error) {
	loadResult, loadErrors := LoadSchedules(dir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return nil, nil, loadErrors[0]
	}

	validationErrs := loadErrorsToValidation(loadErrors)
	for i := range loadResult.Schedules {
		validationErrs = append(validationErrs, validateSchedule(&loadResult.Schedules[i])...)
	}
	return loadResult, validationErrs, nil
}
