package errors

import (
	"fmt"
	"testing"
)

func TestWithCodeMarksFileSkippable(t *testing.T) {
	err := WithCode(CodeSkippableFile, fmt.Errorf("unreadable export"))
	if !IsSkippable(err) {
		t.Error("expected a skippable-file error to be skippable")
	}
	if GetCode(err) != CodeSkippableFile {
		t.Errorf("code = %q, want %q", GetCode(err), CodeSkippableFile)
	}
}

func TestPlainErrorsAreNotSkippable(t *testing.T) {
	if IsSkippable(fmt.Errorf("boom")) {
		t.Error("plain errors must abort, not skip")
	}
	if got := GetCode(fmt.Errorf("boom")); got != "UNKNOWN" {
		t.Errorf("code = %q, want UNKNOWN", got)
	}
}

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(WithCode(CodeMergeConflict, fmt.Errorf("duplicate key")), "merging 15min bucket")
	if GetCode(err) != CodeMergeConflict {
		t.Errorf("code = %q, want %q", GetCode(err), CodeMergeConflict)
	}
}
