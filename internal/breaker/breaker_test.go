package breaker

import (
	"errors"
	"testing"

	cb "github.com/sony/gobreaker"
)

func TestExecutePassesThroughSuccess(t *testing.T) {
	b := New("test")
	v, err := b.Execute(func() (any, error) { return 42, nil })
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if v.(int) != 42 {
		t.Errorf("value = %v, want 42", v)
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, want closed", b.State())
	}
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	b := New("test")
	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		if _, err := b.Execute(func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want boom", i, err)
		}
	}
	_, err := b.Execute(func() (any, error) { return 1, nil })
	if !errors.Is(err, cb.ErrOpenState) {
		t.Fatalf("err = %v, want ErrOpenState", err)
	}
	if b.State() != "open" {
		t.Errorf("state = %s, want open", b.State())
	}
}
