package util

import (
	"errors"
	"strings"
	"testing"
)

func TestRecoverPanic(t *testing.T) {
	run := func(v interface{}) (err error) {
		defer RecoverPanic(&err)
		panic(v)
	}

	tests := []struct {
		in   interface{}
		want string
	}{
		{"boom", "PANIC RECOVERED: boom"},
		{errors.New("bad"), "PANIC RECOVERED: bad"},
		{42, "PANIC RECOVERED: unknown panic"},
	}
	for _, test := range tests {
		err := run(test.in)
		if nil == err || !strings.HasPrefix(err.Error(), test.want) {
			t.Errorf("RecoverPanic(%v) = %v, want prefix %q", test.in, err, test.want)
		}
	}
}

func TestRecoverPanicNoPanic(t *testing.T) {
	var err error
	func() {
		defer RecoverPanic(&err)
	}()
	if nil != err {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSafe(t *testing.T) {
	errBad := errors.New("bad")
	if err := Safe(func() error { return errBad }); !errors.Is(err, errBad) {
		t.Errorf("Safe returned %v, want %v", err, errBad)
	}
	if err := Safe(func() error { panic("boom") }); nil == err || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Safe did not convert panic, got %v", err)
	}
	if err := Safe(func() error { return nil }); nil != err {
		t.Errorf("Safe returned %v, want nil", err)
	}
}
