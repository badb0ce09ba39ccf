package logmerge

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestChanSource(t *testing.T) {
	lines := make(chan string, 2)
	c := NewChanSource("chan", lines, nil)

	if _, err := c.Poll(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("empty chan: err = %v, want ErrNotReady", err)
	}
	lines <- "l1"
	if l, err := c.Poll(); err != nil || l != "l1" {
		t.Fatalf("got (%q, %v)", l, err)
	}
	close(lines)
	if _, err := c.Poll(); err != io.EOF {
		t.Fatalf("closed chan: err = %v, want io.EOF", err)
	}
}

func TestChanSourceError(t *testing.T) {
	lines := make(chan string, 1)
	errs := make(chan error, 1)
	c := NewChanSource("chan", lines, errs)

	boom := errors.New("boom")
	lines <- "l1"
	errs <- boom
	if _, err := c.Poll(); err != boom {
		t.Fatalf("err = %v, want boom first", err)
	}
}

func TestChanSourceMerge(t *testing.T) {
	a := make(chan string, 4)
	b := make(chan string, 4)
	m := NewMerge([]Source{NewChanSource("a", a, nil), NewChanSource("b", b, nil)})

	a <- "a1"
	a <- "a2"
	if _, err := m.Poll(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady while b is empty", err)
	}
	b <- "b1"
	close(a)
	close(b)

	got, _ := drain(t, m)
	if want := []string{"a1", "b1", "a2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFilter(t *testing.T) {
	src := NewSliceSource("app",
		"[INFO] start",
		"[ERRO] db timeout",
		"[ERRO] healthcheck failed",
		"[WARN] slow query",
		"[DBUG] tick",
	)
	f := NewFilter(src, []string{"[ERRO]", "[WARN]"}, []string{"healthcheck"})
	if f.Name() != "app" {
		t.Errorf("name = %q", f.Name())
	}

	got, _ := drain(t, f)
	want := []string{"[ERRO] db timeout", "[WARN] slow query"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	if f.Skipped() != 3 {
		t.Errorf("skipped = %d, want 3", f.Skipped())
	}
}

func TestFilterSkipLimit(t *testing.T) {
	n := 0
	src := SourceFunc(func() (string, error) {
		n++
		return "noise", nil
	})
	f := NewFilter(src, []string{"never"}, nil)
	if _, err := f.Poll(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
	if n != maxFilterSkip {
		t.Errorf("polled %d, want %d", n, maxFilterSkip)
	}
}

func TestMatcher(t *testing.T) {
	row := []byte(`[2023-01-04T21:21:56+08:00] [ERRO] 110.184.137.102 200 "POST /hiddendanger/getprincipalconfiglist HTTP/1.1"`)
	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"empty", nil, false},
		{"simple hit", []string{"ERRO"}, true},
		{"simple miss", []string{"WARN"}, false},
		{"trie hit", []string{"1101", "POST /hidden"}, true},
		{"trie prefix overlap", []string{"110.185", "110.184.1"}, true},
		{"trie miss", []string{"1101", "GET"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newMatcher(tt.patterns).Search(row); got != tt.want {
				t.Errorf("Search = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineQueue(t *testing.T) {
	q := newLineQueue(2)
	q.push(Line{Idx: 0})
	q.push(Line{Idx: 1})
	if l, _ := q.pop(); l.Idx != 0 {
		t.Fatalf("pop = %d, want 0", l.Idx)
	}
	q.push(Line{Idx: 2})
	q.push(Line{Idx: 3}) // 触发扩容, 且 head 不在 0
	for _, want := range []int{1, 2, 3} {
		l, ok := q.pop()
		if !ok || l.Idx != want {
			t.Fatalf("pop = (%d, %v), want %d", l.Idx, ok, want)
		}
	}
	if _, ok := q.pop(); ok || q.Len() != 0 {
		t.Error("queue should be empty")
	}
}

var (
	benchRow = []byte(`[2023-01-04T21:21:56+08:00] [ERRO] 110.184.137.102 200 "POST /hiddendanger/getprincipalconfiglist HTTP/1.1" 198 "http://localhost:8080/"`)
	benchTts = []string{"1101", "1101 a", "a 1101", "ERRO a", "a ERRO", "b a ERRO"}
)

func BenchmarkMatchForTire(b *testing.B) {
	m := newMatcher(benchTts)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Search(benchRow)
	}
}

func BenchmarkMerge(b *testing.B) {
	for i := 0; i < b.N; i++ {
		sources := make([]Source, 8)
		for j := range sources {
			sources[j] = NewSliceSource("", "l1", "l2", "l3", "l4")
		}
		m := NewMerge(sources)
		for {
			if _, err := m.Poll(); err == io.EOF {
				break
			}
		}
	}
}
