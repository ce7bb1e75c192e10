package cronrunner

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestRunner_RunsJobWithBaseContext(t *testing.T) {
	type key struct{}
	base := context.WithValue(context.Background(), key{}, "bank")

	r := New(zaptest.NewLogger(t), base)
	got := make(chan any, 1)
	if _, err := r.Add("probe", "* * * * * *", func(ctx context.Context) {
		select {
		case got <- ctx.Value(key{}):
		default:
		}
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.Start()
	defer r.Stop()

	select {
	case v := <-got:
		if v != "bank" {
			t.Fatalf("job ctx value = %v, want bank", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestRunner_RecoversPanics(t *testing.T) {
	r := New(zaptest.NewLogger(t), context.Background())
	ran := make(chan struct{}, 4)
	if _, err := r.Add("boom", "* * * * * *", func(context.Context) {
		ran <- struct{}{}
		panic("boom")
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.Start()
	defer r.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestRunner_SkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(nil, ctx)
	ran := make(chan struct{}, 1)
	if _, err := r.Add("noop", "* * * * * *", func(context.Context) { ran <- struct{}{} }); err != nil {
		t.Fatalf("Add: %v", err)
	}
	r.Start()
	time.Sleep(1500 * time.Millisecond)
	r.Stop()

	select {
	case <-ran:
		t.Fatalf("job ran after base context was cancelled")
	default:
	}
}

func TestRunner_RejectsBadSpec(t *testing.T) {
	r := New(nil, nil)
	if _, err := r.Add("bad", "every tuesday", func(context.Context) {}); err == nil {
		t.Fatalf("expected parse error")
	}
	if r.Entries() != 0 {
		t.Fatalf("entries = %d, want 0", r.Entries())
	}
}
