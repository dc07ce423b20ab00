package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{DebugLevel, zapcore.DebugLevel},
		{InfoLevel, zapcore.InfoLevel},
		{WarnLevel, zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := toZapLevel(tc.in); got != tc.want {
				t.Fatalf("toZapLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestGet_ReturnsSingleton(t *testing.T) {
	a := Get(DebugLevel)
	b := Get(ErrorLevel)
	if a != b {
		t.Fatalf("expected the same logger instance")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected non-nil no-op logger")
	}
	l := Nop()
	if OrNop(l) != l {
		t.Fatalf("expected the given logger back")
	}
	// must not panic
	l.Named("link").Infow("hello", "k", 1)
}
