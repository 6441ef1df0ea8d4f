package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/vcs2git/vcs2git/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "precondition_error",
			code:    errors.ErrPrecondition,
			message: "repository has staged changes",
			wantStr: "[PRECONDITION] repository has staged changes",
		},
		{
			name:    "resolution_error",
			code:    errors.ErrResolution,
			message: "version not found",
			wantStr: "[RESOLUTION] version not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	base := stderrors.New("network unreachable")
	err := errors.Wrap(base, errors.ErrVcsOperation, "cannot fetch origin")

	if !stderrors.Is(err, base) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if got := err.Error(); got != "[VCS_OPERATION] cannot fetch origin: network unreachable" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapNil(t *testing.T) {
	if err := errors.Wrap(nil, errors.ErrVcsOperation, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrSelectionUnknown, "repositories not found: %s", "ghost")

	if !errors.IsErrorCode(err, errors.ErrSelectionUnknown) {
		t.Error("IsErrorCode should match the assigned code")
	}
	if errors.IsErrorCode(err, errors.ErrSelectionConflict) {
		t.Error("IsErrorCode should not match a different code")
	}
	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrSelectionUnknown) {
		t.Error("IsErrorCode should not match plain errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(plain) = %v, want %v", got, errors.ErrUnknown)
	}

	wrapped := errors.Wrap(
		errors.New(errors.ErrResolution, "inner"),
		errors.ErrRollback, "outer")
	if got := errors.GetErrorCode(wrapped); got != errors.ErrRollback {
		t.Errorf("GetErrorCode should report the outermost code, got %v", got)
	}
}
