package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func newTestCache() *Cache {
	return NewCache(zap.NewNop())
}

func fetchStrings(c *Cache, key Key, fn func(context.Context) ([]string, error)) ([]string, error) {
	return Collection(context.Background(), c, key, fn)
}

func TestFetchCachesValue(t *testing.T) {
	c := newTestCache()
	calls := 0

	fn := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := fetchStrings(c, KeyProjects, fn)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(got) != 2 {
			t.Fatalf("fetch %d: expected 2 items, got %d", i, len(got))
		}
	}

	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}

func TestFetchDeduplicatesConcurrentCalls(t *testing.T) {
	c := newTestCache()

	var calls int32
	release := make(chan struct{})
	fn := func(ctx context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []string{"x"}, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([][]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fetchStrings(c, KeyExperts, fn)
		}(i)
	}

	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected 1 upstream call, got %d", n)
	}
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if len(results[i]) != 1 || results[i][0] != "x" {
			t.Fatalf("worker %d got %v", i, results[i])
		}
	}
}

func TestInvalidateForcesRefetchAndKeepsStaleValue(t *testing.T) {
	c := newTestCache()
	calls := 0

	fn := func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return []string{"old"}, nil
		}
		return []string{"new"}, nil
	}

	if _, err := fetchStrings(c, KeyUsers, fn); err != nil {
		t.Fatal(err)
	}

	c.Invalidate(KeyUsers)

	// Stale value is still readable without triggering a fetch
	cached, ok := c.Cached(KeyUsers)
	if !ok {
		t.Fatal("invalidated entry must keep its value")
	}
	if items := cached.([]string); items[0] != "old" {
		t.Fatalf("expected stale value, got %v", items)
	}

	got, err := fetchStrings(c, KeyUsers, fn)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "new" {
		t.Fatalf("expected refetched value, got %v", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls)
	}
}

func TestFetchFailureServesStaleValue(t *testing.T) {
	c := newTestCache()
	boom := errors.New("boom")
	calls := 0

	fn := func(ctx context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return []string{"good"}, nil
		}
		return nil, boom
	}

	if _, err := fetchStrings(c, KeyBeneficiaries, fn); err != nil {
		t.Fatal(err)
	}

	c.Invalidate(KeyBeneficiaries)

	got, err := fetchStrings(c, KeyBeneficiaries, fn)
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if len(got) != 1 || got[0] != "good" {
		t.Fatalf("expected previous value alongside the error, got %v", got)
	}

	// The entry stays stale, so the next fetch retries upstream
	if _, err := fetchStrings(c, KeyBeneficiaries, fn); !errors.Is(err, boom) {
		t.Fatalf("expected error on retry, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 upstream calls, got %d", calls)
	}
}

func TestFetchFailureWithNoPreviousValue(t *testing.T) {
	c := newTestCache()
	boom := errors.New("down")

	got, err := fetchStrings(c, KeyProjects, func(ctx context.Context) ([]string, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no value, got %v", got)
	}
	if _, ok := c.Cached(KeyProjects); ok {
		t.Fatal("failed first fetch must not create an entry")
	}
}

func TestLoadingAndFetchingFlags(t *testing.T) {
	c := newTestCache()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		fetchStrings(c, KeyProjects, func(ctx context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"a"}, nil
		})
	}()

	<-started
	if !c.IsLoading(KeyProjects) {
		t.Error("first fetch must report loading")
	}
	if !c.IsFetching(KeyProjects) {
		t.Error("first fetch must report fetching")
	}

	close(release)
	<-done

	if c.IsLoading(KeyProjects) || c.IsFetching(KeyProjects) {
		t.Error("flags must clear after the fetch lands")
	}

	// A refetch over existing data fetches without loading
	c.Invalidate(KeyProjects)
	started = make(chan struct{})
	release = make(chan struct{})
	done = make(chan struct{})

	go func() {
		defer close(done)
		fetchStrings(c, KeyProjects, func(ctx context.Context) ([]string, error) {
			close(started)
			<-release
			return []string{"b"}, nil
		})
	}()

	<-started
	if c.IsLoading(KeyProjects) {
		t.Error("refetch with cached data must not report loading")
	}
	if !c.IsFetching(KeyProjects) {
		t.Error("refetch must report fetching")
	}
	close(release)
	<-done
}

func TestFetchContextCancelledWhileWaiting(t *testing.T) {
	c := newTestCache()

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		fetchStrings(c, KeyExperts, func(ctx context.Context) ([]string, error) {
			close(started)
			<-release
			return nil, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collection(ctx, c, KeyExperts, func(ctx context.Context) ([]string, error) {
		t.Error("waiter must not start its own fetch")
		return nil, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMutatorInvalidatesOnSuccessOnly(t *testing.T) {
	c := newTestCache()
	m := NewMutator(c, zap.NewNop())

	calls := 0
	fn := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"v"}, nil
	}
	if _, err := fetchStrings(c, KeyProjects, fn); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("rejected")
	err := m.Do(context.Background(), "create project", func(ctx context.Context) error {
		return boom
	}, KeyProjects)
	if !errors.Is(err, boom) {
		t.Fatalf("expected op error, got %v", err)
	}

	if _, err := fetchStrings(c, KeyProjects, fn); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("failed mutation must not invalidate, upstream calls: %d", calls)
	}

	if err := m.Do(context.Background(), "create project", func(ctx context.Context) error {
		return nil
	}, KeyProjects); err != nil {
		t.Fatal(err)
	}

	if _, err := fetchStrings(c, KeyProjects, fn); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("successful mutation must invalidate, upstream calls: %d", calls)
	}
}

func TestMutatorInvalidatesEveryKey(t *testing.T) {
	c := newTestCache()
	m := NewMutator(c, zap.NewNop())

	keys := []Key{KeyProjects, FinancesKey("p1")}
	counts := map[Key]int{}
	for _, key := range keys {
		k := key
		if _, err := fetchStrings(c, k, func(ctx context.Context) ([]string, error) {
			counts[k]++
			return nil, nil
		}); err != nil {
			t.Fatal(err)
		}
	}

	if err := m.Do(context.Background(), "create finance operation", func(ctx context.Context) error {
		return nil
	}, keys...); err != nil {
		t.Fatal(err)
	}

	for _, key := range keys {
		k := key
		if _, err := fetchStrings(c, k, func(ctx context.Context) ([]string, error) {
			counts[k]++
			return nil, nil
		}); err != nil {
			t.Fatal(err)
		}
		if counts[k] != 2 {
			t.Errorf("key %s: expected refetch after mutation, calls=%d", k, counts[k])
		}
	}
}
