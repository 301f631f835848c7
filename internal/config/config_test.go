package config

import (
	"testing"
	"time"
)

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvUndeclaredOutputsDir, "/tmp/outputs")
	t.Setenv(EnvUndeclaredOutputsZip, "/tmp/outputs.zip")
	t.Setenv(EnvUndeclaredOutputsManifest, "/tmp/MANIFEST")
	t.Setenv(EnvAnnotationsDir, "/tmp/annot")
	t.Setenv(EnvAnnotationsOut, "/tmp/ANNOTATIONS")
	t.Setenv(EnvXMLOutputFile, "/tmp/test.xml")
	t.Setenv(EnvLogFile, "/tmp/test.log")
	t.Setenv(EnvTimeout, "90")

	s := FromEnv()
	if s.UndeclaredOutputsDir != "/tmp/outputs" {
		t.Errorf("UndeclaredOutputsDir = %q", s.UndeclaredOutputsDir)
	}
	if s.UndeclaredOutputsZip != "/tmp/outputs.zip" {
		t.Errorf("UndeclaredOutputsZip = %q", s.UndeclaredOutputsZip)
	}
	if s.UndeclaredOutputsManifest != "/tmp/MANIFEST" {
		t.Errorf("UndeclaredOutputsManifest = %q", s.UndeclaredOutputsManifest)
	}
	if s.AnnotationsDir != "/tmp/annot" {
		t.Errorf("AnnotationsDir = %q", s.AnnotationsDir)
	}
	if s.AnnotationsOut != "/tmp/ANNOTATIONS" {
		t.Errorf("AnnotationsOut = %q", s.AnnotationsOut)
	}
	if s.XMLOutputFile != "/tmp/test.xml" {
		t.Errorf("XMLOutputFile = %q", s.XMLOutputFile)
	}
	if s.LogFile != "/tmp/test.log" {
		t.Errorf("LogFile = %q", s.LogFile)
	}
	if s.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", s.Timeout)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, name := range []string{
		EnvUndeclaredOutputsDir, EnvUndeclaredOutputsZip, EnvUndeclaredOutputsManifest,
		EnvAnnotationsDir, EnvAnnotationsOut, EnvXMLOutputFile, EnvLogFile, EnvTimeout,
	} {
		t.Setenv(name, "")
	}

	s := FromEnv()
	if s != (Settings{}) {
		t.Errorf("expected zero settings, got %+v", s)
	}
}

func TestFromEnv_BadTimeoutIgnored(t *testing.T) {
	for _, v := range []string{"not-a-number", "-5", "0"} {
		t.Setenv(EnvTimeout, v)
		if s := FromEnv(); s.Timeout != 0 {
			t.Errorf("timeout %q should be ignored, got %v", v, s.Timeout)
		}
	}
}
