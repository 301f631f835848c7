// Package config resolves the wrapper's settings from its environment.
//
// The wrapper is configured by whatever launched it, through the same
// environment contract build tools export to tests: paths for the captured
// log, the XML report and the undeclared outputs artifacts, plus the run
// timeout. Command-line flags override any of these.
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names consumed by the wrapper.
const (
	EnvUndeclaredOutputsDir      = "TEST_UNDECLARED_OUTPUTS_DIR"
	EnvUndeclaredOutputsZip      = "TEST_UNDECLARED_OUTPUTS_ZIP"
	EnvUndeclaredOutputsManifest = "TEST_UNDECLARED_OUTPUTS_MANIFEST"
	EnvAnnotationsDir            = "TEST_UNDECLARED_OUTPUTS_ANNOTATIONS_DIR"
	EnvAnnotationsOut            = "TEST_UNDECLARED_OUTPUTS_ANNOTATIONS"
	EnvXMLOutputFile             = "XML_OUTPUT_FILE"
	EnvLogFile                   = "TESTWRAP_LOG"
	EnvTimeout                   = "TEST_TIMEOUT" // seconds
)

// Settings carries every path and limit the wrapper needs for one run.
// Empty fields disable the corresponding artifact.
type Settings struct {
	// UndeclaredOutputsDir is the directory the test drops extra files in.
	UndeclaredOutputsDir string
	// UndeclaredOutputsZip is where the outputs archive is written.
	UndeclaredOutputsZip string
	// UndeclaredOutputsManifest is where the outputs manifest is written.
	UndeclaredOutputsManifest string
	// AnnotationsDir holds the *.part files to merge.
	AnnotationsDir string
	// AnnotationsOut is the merged annotations file.
	AnnotationsOut string
	// XMLOutputFile is where the XML report is written.
	XMLOutputFile string
	// LogFile is where the captured test output is written.
	LogFile string
	// Timeout bounds the test run; zero means the runner's default.
	Timeout time.Duration
}

// FromEnv loads Settings from the process environment. Unset variables leave
// their fields empty; a malformed or non-positive timeout is ignored.
func FromEnv() Settings {
	s := Settings{
		UndeclaredOutputsDir:      os.Getenv(EnvUndeclaredOutputsDir),
		UndeclaredOutputsZip:      os.Getenv(EnvUndeclaredOutputsZip),
		UndeclaredOutputsManifest: os.Getenv(EnvUndeclaredOutputsManifest),
		AnnotationsDir:            os.Getenv(EnvAnnotationsDir),
		AnnotationsOut:            os.Getenv(EnvAnnotationsOut),
		XMLOutputFile:             os.Getenv(EnvXMLOutputFile),
		LogFile:                   os.Getenv(EnvLogFile),
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			s.Timeout = time.Duration(secs) * time.Second
		}
	}
	return s
}
