package logmerge

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type memWriter struct {
	mu   sync.Mutex
	bus  []LineBus
	done func()
}

func (w *memWriter) WriteTo(bus *LineBus) {
	w.mu.Lock()
	w.bus = append(w.bus, *bus)
	w.mu.Unlock()
	if w.done != nil {
		w.done()
	}
}

func (w *memWriter) msgs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	res := make([]string, 0, len(w.bus))
	for _, b := range w.bus {
		res = append(res, b.Msg)
	}
	return res
}

func TestHandlerValid(t *testing.T) {
	if err := (&Handler{}).Valid(); err == nil {
		t.Error("empty Tos should be invalid")
	}
	if err := (&Handler{Tos: []LineWriter{nil}}).Valid(); err == nil {
		t.Error("nil writer should be invalid")
	}
	if _, err := NewPump(NewSliceSource("a"), &Handler{}); err == nil {
		t.Error("NewPump should validate handler")
	}
}

func TestPumpRun(t *testing.T) {
	w := new(memWriter)
	m := NewMerge([]Source{
		NewSliceSource("a", "a1", "a2"),
		NewSliceSource("b", "b1"),
	})
	p, err := NewPump(m, &Handler{Tos: []LineWriter{w}, Ext: "ext"})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []LineBus{
		{Idx: 0, Source: "a", Msg: "a1", Ext: "ext"},
		{Idx: 1, Source: "b", Msg: "b1", Ext: "ext"},
		{Idx: 0, Source: "a", Msg: "a2", Ext: "ext"},
	}
	if !reflect.DeepEqual(w.bus, want) {
		t.Errorf("got %+v, want %+v", w.bus, want)
	}
	if p.Written() != 3 {
		t.Errorf("written = %d, want 3", p.Written())
	}
}

func TestPumpPlainSource(t *testing.T) {
	w := new(memWriter)
	p, err := NewPump(NewSliceSource("plain", "l1"), &Handler{Tos: []LineWriter{w}})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(w.bus) != 1 || w.bus[0].Idx != -1 || w.bus[0].Source != "plain" {
		t.Errorf("got %+v", w.bus)
	}
}

func TestPumpAsync(t *testing.T) {
	var wg sync.WaitGroup
	w1 := &memWriter{done: wg.Done}
	w2 := &memWriter{done: wg.Done}
	m := NewMerge([]Source{NewSliceSource("a", "a1", "a2"), NewSliceSource("b", "b1")})
	p, err := NewPump(m, &Handler{Tos: []LineWriter{w1, w2}}, WithAsync())
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	wg.Add(6)
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	wg.Wait()
	if len(w1.msgs()) != 3 || len(w2.msgs()) != 3 {
		t.Errorf("w1 %q, w2 %q", w1.msgs(), w2.msgs())
	}
}

func TestPumpWake(t *testing.T) {
	lines := make(chan string, 1)
	wake := make(chan struct{}, 1)
	w := new(memWriter)
	m := NewMerge([]Source{NewChanSource("chan", lines, nil)})
	p, err := NewPump(m, &Handler{Tos: []LineWriter{w}}, WithWake(wake), WithInterval(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(context.Background()) }()

	lines <- "l1"
	wake <- struct{}{}
	time.Sleep(50 * time.Millisecond)
	close(lines)
	wake <- struct{}{}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not finish after wake")
	}
	if got := w.msgs(); !reflect.DeepEqual(got, []string{"l1"}) {
		t.Errorf("got %q", got)
	}
}

func TestPumpCancel(t *testing.T) {
	m := NewMerge([]Source{NewChanSource("idle", make(chan string), nil)})
	p, err := NewPump(m, &Handler{Tos: []LineWriter{new(memWriter)}}, WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestPumpFailure(t *testing.T) {
	boom := errors.New("boom")
	w := new(memWriter)
	m := NewMerge([]Source{
		NewSliceSource("a", "a1", "a2"),
		&scriptSource{name: "b", steps: append(lines("b1"), step{err: boom})},
	})
	p, err := NewPump(m, &Handler{Tos: []LineWriter{w}})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	err = p.Run(context.Background())
	if !errors.Is(err, ErrSourceFailed) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want source failure", err)
	}
	if got := w.msgs(); !reflect.DeepEqual(got, []string{"a1", "b1"}) {
		t.Errorf("lines before failure = %q", got)
	}
}
