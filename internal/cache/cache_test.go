package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_Expiry(t *testing.T) {
	c := NewLRUCache[string](4, time.Second)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("j", "w")
	now = now.Add(2 * time.Second)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Errorf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCache_ZeroTTLDisables(t *testing.T) {
	c := NewLRUCache[int](4, 0)
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Error("disabled cache returned a value")
	}
	if c.Enabled() {
		t.Error("Enabled() = true, want false")
	}
}

func TestLRUCache_Purge(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if n := c.Purge(); n != 2 {
		t.Errorf("Purge() = %d, want 2", n)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("purged entry returned")
	}
	c.Set("c", 3)
	if c.Size() != 1 {
		t.Errorf("Size() after purge and set = %d", c.Size())
	}
}

func TestManager_CleanAllAndStop(t *testing.T) {
	c := NewLRUCache[int](4, time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set("a", 1)
	now = now.Add(time.Hour)

	m := NewManager(nil)
	m.Register(c)
	if n := m.CleanAll(); n != 1 {
		t.Errorf("CleanAll() = %d, want 1", n)
	}

	m.StartCleanup(time.Millisecond)
	m.Stop()
	// Stop without a running loop must not block.
	NewManager(nil).Stop()
}

func TestCollection_LoadUsesCache(t *testing.T) {
	var c Collection[int]
	calls := 0
	fetch := func(context.Context) ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	ctx := context.Background()
	if err := c.Load(ctx, false, fetch); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(ctx, false, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if err := c.Load(ctx, true, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetch calls after force = %d, want 2", calls)
	}
}

func TestCollection_FailureClears(t *testing.T) {
	var c Collection[int]
	c.Replace([]int{1})

	boom := errors.New("boom")
	err := c.Load(context.Background(), true, func(context.Context) ([]int, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("Load() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if items := c.Items(); items == nil || len(items) != 0 {
		t.Errorf("Items() = %#v, want empty non-nil", items)
	}
}

func TestCollection_ConcurrentLoadsShareFetch(t *testing.T) {
	var c Collection[int]
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) ([]int, error) {
		calls.Add(1)
		<-release
		return []int{1}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Load(context.Background(), true, fetch)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() > 2 {
		t.Errorf("fetch calls = %d, want shared fetch", calls.Load())
	}
}

func TestCollection_UpdateRemoveFind(t *testing.T) {
	var c Collection[int]
	c.Replace([]int{1, 2, 3})

	if !c.Update(func(v int) bool { return v == 2 }, func(v int) int { return 20 }) {
		t.Error("Update() = false")
	}
	if !c.Remove(func(v int) bool { return v == 1 }) {
		t.Error("Remove() = false")
	}
	c.Append(4)

	got := c.Items()
	want := []int{20, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Items() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Items() = %v, want %v", got, want)
		}
	}
	if v, ok := c.Find(func(v int) bool { return v == 3 }).Get(); !ok || v != 3 {
		t.Errorf("Find(3) = %v, %v", v, ok)
	}
	if c.Find(func(v int) bool { return v == 99 }).OK() {
		t.Error("Find(99) found something")
	}
}

func TestFlight_Generations(t *testing.T) {
	var f Flight
	first := f.Begin()
	second := f.Begin()
	if f.Current(first) {
		t.Error("older generation reported current")
	}
	if !f.Current(second) {
		t.Error("newest generation not current")
	}
	f.Invalidate()
	if f.Current(second) {
		t.Error("generation still current after Invalidate")
	}
}

func TestFlight_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var f Flight
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		close(started)
		<-release
		return "ok", ctx.Err()
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err, _ := f.Do(ctxA, "k", fn)
		errA <- err
	}()
	<-started

	type result struct {
		v   any
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err, _ := f.Do(context.Background(), "k", fn)
		resB <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(release)
	r := <-resB
	if r.err != nil || r.v != "ok" {
		t.Errorf("joined caller = %v, %v; want ok, nil", r.v, r.err)
	}
	if calls.Load() != 1 {
		t.Errorf("fn calls = %d, want 1", calls.Load())
	}
}

func TestCollection_CancelledLoaderDoesNotFailOthers(t *testing.T) {
	var c Collection[int]
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]int, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []int{1, 2}, nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() { errA <- c.Load(ctxA, true, fetch) }()
	<-started

	errB := make(chan error, 1)
	go func() { errB <- c.Load(context.Background(), true, fetch) }()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled loader error = %v, want context.Canceled", err)
	}
	close(release)
	if err := <-errB; err != nil {
		t.Fatalf("joined loader error = %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
