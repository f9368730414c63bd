package system

import (
	"context"
	"fmt"
	"testing"
)

type recordingService struct {
	NoopService
	events *[]string
}

func (s recordingService) Start(ctx context.Context) error {
	*s.events = append(*s.events, "start "+s.ServiceName)
	return s.NoopService.Start(ctx)
}

func (s recordingService) Stop(ctx context.Context) error {
	*s.events = append(*s.events, "stop "+s.ServiceName)
	return s.NoopService.Stop(ctx)
}

type failingService struct {
	NoopService
}

func (s failingService) Start(context.Context) error {
	return fmt.Errorf("start refused")
}

func TestManagerStartsInOrderStopsInReverse(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"first", "second"} {
		svc := recordingService{NoopService: NoopService{ServiceName: name}, events: &events}
		if err := m.Register(svc); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	want := []string{"start first", "start second", "stop second", "stop first"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestManagerRejectsDuplicateNames(t *testing.T) {
	m := NewManager()
	if err := m.Register(NoopService{ServiceName: "dup"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := m.Register(NoopService{ServiceName: "dup"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestManagerClosedAfterStart(t *testing.T) {
	m := NewManager()
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Register(NoopService{ServiceName: "late"}); err == nil {
		t.Fatal("expected registration after start to fail")
	}
}

func TestManagerRollsBackOnStartFailure(t *testing.T) {
	var events []string
	m := NewManager()
	ok := recordingService{NoopService: NoopService{ServiceName: "healthy"}, events: &events}
	if err := m.Register(ok); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := m.Register(failingService{NoopService{ServiceName: "broken"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := m.Start(context.Background()); err == nil {
		t.Fatal("expected start failure to propagate")
	}

	want := []string{"start healthy", "stop healthy"}
	if len(events) != len(want) || events[0] != want[0] || events[1] != want[1] {
		t.Fatalf("events = %v, want %v", events, want)
	}
}
