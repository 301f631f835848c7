package testutil

import (
	"bytes"
	"io"
	"os"
	"sync"
)

// CaptureOutput captures stdout and stderr output from a function.
func CaptureOutput(fn func()) (stdout, stderr string, err error) {
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return "", "", err
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		return "", "", err
	}

	os.Stdout = stdoutW
	os.Stderr = stderrW

	stdoutChan := make(chan string)
	stderrChan := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stdoutR) //nolint:errcheck
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stderrR) //nolint:errcheck
		stderrChan <- buf.String()
	}()

	fn()

	_ = stdoutW.Close() //nolint:errcheck
	_ = stderrW.Close() //nolint:errcheck

	os.Stdout = oldStdout
	os.Stderr = oldStderr

	stdout = <-stdoutChan
	stderr = <-stderrChan

	return stdout, stderr, nil
}

// TestWriter provides a simple thread-safe io.Writer for tests.
type TestWriter struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

// NewTestWriter creates a new TestWriter.
func NewTestWriter() *TestWriter {
	return &TestWriter{}
}

// Write implements io.Writer.
func (tw *TestWriter) Write(p []byte) (n int, err error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.buf.Write(p)
}

// String returns the written content.
func (tw *TestWriter) String() string {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.buf.String()
}

// Bytes returns the written content as bytes.
func (tw *TestWriter) Bytes() []byte {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.buf.Bytes()
}
