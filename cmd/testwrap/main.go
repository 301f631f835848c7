// Package main is the entry point for the testwrap CLI, a native
// test-execution wrapper: it runs a test binary, mirrors its output,
// writes an XML report and packages the test's undeclared outputs.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bebsworthy/testwrap/internal/debug"
)

// Version is set at build time via ldflags
var Version = "dev"

// infraFailureExitCode is returned when the wrapper itself fails: a broken
// archive, manifest or report build must not look like a test result.
const infraFailureExitCode = 3

// Global flags
var debugFlag bool

// testExitError carries the test's own exit code through cobra's error path
// so main can pass it on unchanged.
type testExitError struct {
	code int
}

func (e *testExitError) Error() string {
	return fmt.Sprintf("test exited with code %d", e.code)
}

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testwrap",
		Short: "Run a test binary and package its results",
		Long: `Testwrap runs a test binary on behalf of a build tool, mirroring the
test's output to the console and a captured log at the same time. After the
run it can write an XML report with the captured output embedded safely, and
package the "undeclared outputs" the test left behind into a zip archive with
an accompanying manifest.

Paths default to the standard test environment variables
(TEST_UNDECLARED_OUTPUTS_DIR, XML_OUTPUT_FILE, ...); flags override them.

EXIT CODES:
  The wrapper exits with the test's own exit code. Wrapper failures
  (archive, manifest or report errors) exit with code 3 so infrastructure
  problems are never mistaken for test results.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # Run a test, mirror output to the console and test.log
  testwrap run --log test.log -- ./my_test --fast

  # Full result pipeline
  testwrap run --log test.log --xml test.xml --outputs-dir outputs -- ./my_test

  # Package an outputs directory after the fact
  testwrap archive --out outputs.zip --manifest MANIFEST ./outputs`,
	}

	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newArchiveCmd())
	cmd.AddCommand(newAnnotationsCmd())

	return cmd
}

func main() {
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--debug" {
			debug.Enable()
			break
		}
	}

	if err := newRootCmd().Execute(); err != nil {
		var exitErr *testExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(infraFailureExitCode)
	}
}
