package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestErrorCode_Nested(t *testing.T) {
	err := &Error{
		Op: "mock.Store.Open",
		Err: &Error{
			Code: ECorruptState,
			Msg:  "corrupt bundle",
		},
	}
	if got := ErrorCode(err); got != ECorruptState {
		t.Fatalf("ErrorCode() = %q, want %q", got, ECorruptState)
	}
	if got := ErrorMessage(err); got != "corrupt bundle" {
		t.Fatalf("ErrorMessage() = %q, want %q", got, "corrupt bundle")
	}
}

func TestErrorCode_Plain(t *testing.T) {
	if got := ErrorCode(stderrors.New("boom")); got != EInternal {
		t.Fatalf("ErrorCode() = %q, want %q", got, EInternal)
	}
}

func TestCodeToStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ENotFound, http.StatusNotFound},
		{EConflict, http.StatusConflict},
		{EUnauthorized, http.StatusUnauthorized},
		{EInvalid, http.StatusBadRequest},
		{"bogus", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := CodeToStatus(tt.code); got != tt.want {
			t.Errorf("CodeToStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := &Error{Code: EInternal, Msg: "outer", Err: inner}
	if !stderrors.Is(err, inner) {
		t.Fatal("expected errors.Is to reach the wrapped error")
	}
}
