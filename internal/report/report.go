// Package report writes the XML file describing one test run, embedding the
// captured log as a CDATA system-out section.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bebsworthy/testwrap/internal/cdata"
	"github.com/bebsworthy/testwrap/internal/stream"
)

// Result describes a finished test run.
type Result struct {
	// Name of the test, as shown in the report.
	Name string
	// ExitCode of the test process; non-zero marks the run as errored.
	ExitCode int
	// Duration of the run.
	Duration time.Duration
}

// Write renders the XML document for res to w. The captured log is read from
// log and passed through the CDATA encoder, so arbitrary test output
// (including "]]>" and control bytes) cannot break the document.
func Write(w io.Writer, res Result, log io.Reader) error {
	bw := bufio.NewWriter(w)
	name := escapeAttr(res.Name)
	seconds := res.Duration.Seconds()

	errored := 0
	errorTag := ""
	if res.ExitCode != 0 {
		errored = 1
		errorTag = fmt.Sprintf(`<error message="exited with error code %d"></error>`, res.ExitCode)
	}

	fmt.Fprint(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<testsuites>\n")
	fmt.Fprintf(bw, "<testsuite name=\"%s\" tests=\"1\" failures=\"0\" errors=\"%d\">\n", name, errored)
	fmt.Fprintf(bw, "<testcase name=\"%s\" status=\"run\" duration=\"%.1f\" time=\"%.1f\">%s</testcase>\n",
		name, seconds, seconds, errorTag)
	fmt.Fprint(bw, "<system-out>")
	if err := cdata.WriteSection(bw, stream.NewPeekable(log, 0)); err != nil {
		return fmt.Errorf("encoding test log: %w", err)
	}
	fmt.Fprint(bw, "</system-out>\n</testsuite>\n</testsuites>\n")
	return bw.Flush()
}

// WriteFile writes the report to path, reading the captured log from
// logPath. A missing log file yields an empty system-out section.
func WriteFile(path string, res Result, logPath string) error {
	var log io.Reader = strings.NewReader("")
	if logPath != "" {
		f, err := os.Open(logPath)
		if err == nil {
			defer f.Close() //nolint:errcheck
			log = f
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("opening test log: %w", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := Write(out, res, log); err != nil {
		_ = out.Close() //nolint:errcheck
		return err
	}
	return out.Close()
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
