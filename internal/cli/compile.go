package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ecsaccess/internal/compiler"
	"github.com/roach88/ecsaccess/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledSchedule pairs a compiled schedule with its content hash and
// the hash of each system, keyed by system name.
type CompiledSchedule struct {
	Hash         string            `json:"hash"`
	SystemHashes map[string]string `json:"system_hashes"`
	Schedule     ir.Schedule       `json:"schedule"`
}

// CompilationResult holds the compiled schedules.
type CompilationResult struct {
	IRVersion string             `json:"ir_version"`
	Schedules []CompiledSchedule `json:"schedules"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	ScheduleCount int
	SystemCount   int
	ParamCount    int
	QueryCount    int
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schedules-dir>",
		Short: "Compile CUE schedules to canonical IR",
		Long: `Compile CUE schedules to the schedule IR.

Each schedule is printed with its content hash. The hash covers the
canonical JSON encoding of the schedule, so it changes only when the
declared access or ordering changes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadSchedules(dir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := &CompilationResult{
		IRVersion: ir.IRVersion,
		Schedules: make([]CompiledSchedule, 0, len(loadResult.Schedules)),
	}
	for _, s := range loadResult.Schedules {
		formatter.VerboseLog("Compiling schedule: %s", s.Name)
		hash, err := ir.ScheduleHash(s)
		if err != nil {
			return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing schedule %s: %v", s.Name, err), nil)
		}
		systemHashes := make(map[string]string, len(s.Systems))
		for _, sys := range s.Systems {
			if systemHashes[sys.Name], err = ir.SystemHash(sys); err != nil {
				return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing system %s.%s: %v", s.Name, sys.Name, err), nil)
			}
		}
		result.Schedules = append(result.Schedules, CompiledSchedule{Hash: hash, SystemHashes: systemHashes, Schedule: s})
	}

	stats := calculateStats(result)

	if opts.Output != "" {
		if err := writeIRToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, stats, opts.Output)
}

// calculateStats computes summary statistics from compilation result.
func calculateStats(result *CompilationResult) CompilationStats {
	stats := CompilationStats{ScheduleCount: len(result.Schedules)}

	for _, cs := range result.Schedules {
		stats.SystemCount += len(cs.Schedule.Systems)
		for _, sys := range cs.Schedule.Systems {
			stats.ParamCount += len(sys.Params)
			for _, p := range sys.Params {
				if p.Kind == ir.ParamQuery {
					stats.QueryCount++
				}
			}
		}
	}

	return stats
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, stats CompilationStats, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d schedule(s), %d system(s)\n\n",
		stats.ScheduleCount, stats.SystemCount)

	for _, cs := range result.Schedules {
		fmt.Fprintf(formatter.Writer, "%s  %s\n", cs.Hash, cs.Schedule.Name)
		for _, sys := range cs.Schedule.Systems {
			fmt.Fprintf(formatter.Writer, "  %s: %d param(s)  %s\n", sys.Name, len(sys.Params), shortHash(cs.SystemHashes[sys.Name]))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote IR to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		if err := formatter.Respond(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeIRToFile writes the compilation result to a file.
func writeIRToFile(result *CompilationResult, filename string) error {
	// Indented for readability; canonical JSON is used only for hashing
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
