package pool

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestKeyedBuildsOncePerKey(t *testing.T) {
	var p Keyed[*int]
	var builds atomic.Int32

	var wg sync.WaitGroup
	results := make([]*int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := p.Get("searchpath", func() (*int, error) {
				n := int(builds.Add(1))
				return &n, nil
			})
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Fatalf("built %d times, want 1", builds.Load())
	}
	for i, r := range results {
		if r != results[0] {
			t.Fatalf("result %d differs from result 0", i)
		}
	}

	other, _ := p.Get("fixed", func() (*int, error) { n := 99; return &n, nil })
	if other == results[0] {
		t.Error("distinct keys must get distinct instances")
	}
	if got := p.Keys(); len(got) != 2 || got[0] != "fixed" || got[1] != "searchpath" {
		t.Errorf("Keys() = %v", got)
	}
}

func TestKeyedFailedBuildIsNotStored(t *testing.T) {
	var p Keyed[string]
	boom := errors.New("boom")

	if _, err := p.Get("k", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Fatalf("Get error = %v, want boom", err)
	}
	if _, ok := p.Lookup("k"); ok {
		t.Fatal("failed build should not be stored")
	}
	v, err := p.Get("k", func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("retry = %q, %v", v, err)
	}
	if !p.Drop("k") || p.Drop("k") {
		t.Error("Drop reported wrong state")
	}
}
