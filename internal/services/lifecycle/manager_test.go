package lifecycle

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestShutdown_ReverseOrderAndJoinedErrors(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	boom := errors.New("boom")
	m.Register("store", func(context.Context) error {
		order = append(order, "store")
		return nil
	})
	m.Register("monitor", func(context.Context) error {
		order = append(order, "monitor")
		return boom
	})
	m.Register("http", func(context.Context) error {
		order = append(order, "http")
		return nil
	})

	err := m.Shutdown(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
	want := []string{"http", "monitor", "store"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected %v, got %v", want, order)
	}

	order = nil
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("components stopped twice: %v", order)
	}
}

func TestGo_FailureCancelsListener(t *testing.T) {
	m := New(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Listen(cancel)

	failure := errors.New("listen failed")
	m.Go("http", func() error { return failure })

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not cancelled")
	}
	if !errors.Is(m.Err(), failure) {
		t.Fatalf("expected recorded failure, got %v", m.Err())
	}
}

func TestRegister_IgnoresNil(t *testing.T) {
	m := New(0, nil)
	m.Register("nothing", nil)
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestShutdown_ReleasesSignalListener(t *testing.T) {
	m := New(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Listen(cancel)

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	select {
	case <-m.done:
	default:
		t.Fatal("done channel must be closed by Shutdown")
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Shutdown alone must not cancel the listener context")
	}
}
