package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bebsworthy/testwrap/internal/config"
	"github.com/bebsworthy/testwrap/internal/debug"
	"github.com/bebsworthy/testwrap/internal/executor"
	"github.com/bebsworthy/testwrap/internal/outputs"
	"github.com/bebsworthy/testwrap/internal/report"
)

func newRunCmd() *cobra.Command {
	var (
		name       string
		workingDir string
		timeout    time.Duration
		usePTY     bool
		logPath    string
		xmlPath    string
		outDir     string
		zipPath    string
		manifest   string
		annotDir   string
		annotOut   string
		include    []string
		exclude    []string
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a test and package its results",
		Long: `Run executes the test command, mirroring its combined stdout and stderr
to the console and to the captured log simultaneously. After the run it
writes the XML report and packages the undeclared outputs directory, when
those artifacts are configured.`,
		Example: `  testwrap run --log test.log -- ./my_test
  testwrap run --xml test.xml --outputs-dir outputs --zip outputs.zip -- ./my_test -v
  testwrap run --pty -- ./needs_a_terminal_test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.FromEnv()
			override(&settings.LogFile, logPath)
			override(&settings.XMLOutputFile, xmlPath)
			override(&settings.UndeclaredOutputsDir, outDir)
			override(&settings.UndeclaredOutputsZip, zipPath)
			override(&settings.UndeclaredOutputsManifest, manifest)
			override(&settings.AnnotationsDir, annotDir)
			override(&settings.AnnotationsOut, annotOut)
			if timeout > 0 {
				settings.Timeout = timeout
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			return runTest(settings, name, args, workingDir, usePTY, include, exclude)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Test name used in the XML report (default: command basename)")
	cmd.Flags().StringVar(&workingDir, "dir", "", "Working directory for the test")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Deadline for the run (overrides TEST_TIMEOUT)")
	cmd.Flags().BoolVar(&usePTY, "pty", false, "Run the test on a pseudo-terminal")
	cmd.Flags().StringVar(&logPath, "log", "", "Captured output file (default: $TESTWRAP_LOG or test.log)")
	cmd.Flags().StringVar(&xmlPath, "xml", "", "XML report file (default: $XML_OUTPUT_FILE)")
	cmd.Flags().StringVar(&outDir, "outputs-dir", "", "Undeclared outputs directory (default: $TEST_UNDECLARED_OUTPUTS_DIR)")
	cmd.Flags().StringVar(&zipPath, "zip", "", "Outputs archive file (default: $TEST_UNDECLARED_OUTPUTS_ZIP)")
	cmd.Flags().StringVar(&manifest, "manifest", "", "Outputs manifest file (default: $TEST_UNDECLARED_OUTPUTS_MANIFEST)")
	cmd.Flags().StringVar(&annotDir, "annotations-dir", "", "Annotations directory (default: $TEST_UNDECLARED_OUTPUTS_ANNOTATIONS_DIR)")
	cmd.Flags().StringVar(&annotOut, "annotations-out", "", "Merged annotations file (default: $TEST_UNDECLARED_OUTPUTS_ANNOTATIONS)")
	cmd.Flags().StringSliceVar(&include, "include", nil, "Glob patterns of outputs to package (default: all)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Glob patterns of outputs to skip")

	return cmd
}

func override(field *string, value string) {
	if value != "" {
		*field = value
	}
}

func runTest(settings config.Settings, name string, command []string, workingDir string, usePTY bool, include, exclude []string) error {
	logPath := settings.LogFile
	if logPath == "" {
		logPath = "test.log"
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating test log: %w", err)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("exec: %s\n", strings.Join(command, " "))
	}

	runner := executor.NewRunner(0)
	opts := executor.RunOptions{
		WorkingDir: workingDir,
		Timeout:    settings.Timeout,
		InheritEnv: true,
		UsePTY:     usePTY,
	}
	result, err := runner.Run(command[0], command[1:], opts, os.Stdout, logFile)
	if err != nil {
		_ = logFile.Close() //nolint:errcheck
		return err
	}
	if closeErr := logFile.Close(); closeErr != nil {
		return fmt.Errorf("closing test log: %w", closeErr)
	}
	if result.Err != nil {
		return fmt.Errorf("test run failed: %w", result.Err)
	}
	if result.TimedOut {
		fmt.Fprintf(os.Stderr, "testwrap: test timed out after %s\n", result.Duration.Round(time.Millisecond))
	}

	if settings.XMLOutputFile != "" {
		res := report.Result{Name: name, ExitCode: result.ExitCode, Duration: result.Duration}
		if err := report.WriteFile(settings.XMLOutputFile, res, logPath); err != nil {
			return err
		}
	}

	if err := packageOutputs(settings, include, exclude); err != nil {
		return err
	}

	if result.ExitCode != 0 {
		return &testExitError{code: result.ExitCode}
	}
	return nil
}

// packageOutputs builds the undeclared outputs artifacts the settings ask
// for. A configured but absent outputs directory means the test produced
// nothing; that is not a failure.
func packageOutputs(settings config.Settings, include, exclude []string) error {
	if settings.UndeclaredOutputsDir != "" {
		if _, err := os.Stat(settings.UndeclaredOutputsDir); os.IsNotExist(err) {
			debug.Log("outputs directory %s does not exist, nothing to package", settings.UndeclaredOutputsDir)
		} else {
			entries, err := outputs.Walk(settings.UndeclaredOutputsDir, outputs.UnlimitedDepth)
			if err != nil {
				return err
			}
			entries, err = outputs.Filter(entries, include, exclude)
			if err != nil {
				return err
			}
			if settings.UndeclaredOutputsZip != "" {
				if err := outputs.CreateArchive(settings.UndeclaredOutputsDir, entries, settings.UndeclaredOutputsZip); err != nil {
					return err
				}
			}
			if settings.UndeclaredOutputsManifest != "" {
				manifest := outputs.RenderManifest(entries, nil)
				if err := os.WriteFile(settings.UndeclaredOutputsManifest, []byte(manifest), 0o644); err != nil {
					return fmt.Errorf("writing manifest: %w", err)
				}
			}
		}
	}

	if settings.AnnotationsDir != "" && settings.AnnotationsOut != "" {
		if err := outputs.MergeAnnotations(settings.AnnotationsDir, settings.AnnotationsOut); err != nil {
			return err
		}
	}
	return nil
}
