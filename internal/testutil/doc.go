// Package testutil provides shared test helpers for testwrap: stdout/stderr
// capture and fault-injecting readers and writers for exercising stream and
// tee failure paths.
package testutil
