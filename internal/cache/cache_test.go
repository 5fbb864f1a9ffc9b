package cache

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/JonMunkholm/directory/internal/directory"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(store Store) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	c := New(store, 5*time.Minute, "test")
	c.Now = clock.Now
	return c, clock
}

func testDataset() *directory.Dataset {
	return directory.NewDataset(
		[]string{"Initiative Name", "Country", "X Account"},
		[]directory.Record{
			{Name: "Alpha", Country: "Chile", Extra: map[string]string{"X Account": "@alpha"}},
			{Name: "Beta", Country: "Peru"},
		},
	)
}

func TestCache_WriteRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, _ := newTestCache(store)

	ds := testDataset()
	c.Write(ctx, ds)

	got, ok := c.Read(ctx)
	if !ok {
		t.Fatal("Read missed right after Write")
	}
	if got.ID != ds.ID {
		t.Errorf("ID = %v, want %v", got.ID, ds.ID)
	}
	if got.Len() != 2 || got.Records[0].Name != "Alpha" || got.Records[1].Country != "Peru" {
		t.Errorf("records = %+v", got.Records)
	}
	if got.Records[0].Extra["X Account"] != "@alpha" {
		t.Errorf("extra columns lost: %+v", got.Records[0].Extra)
	}

	ts, ok, _ := store.Get(ctx, "test_cache_timestamp")
	if !ok || ts != strconv.FormatInt(1_700_000_000_000, 10) {
		t.Errorf("timestamp key = %q (present %v)", ts, ok)
	}
	if _, ok, _ := store.Get(ctx, "test_data"); !ok {
		t.Error("data key missing")
	}
}

func TestCache_TTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, clock := newTestCache(store)
	c.Write(ctx, testDataset())

	clock.Advance(5*time.Minute - time.Millisecond)
	if _, ok := c.Read(ctx); !ok {
		t.Error("Read missed just before TTL")
	}

	clock.Advance(time.Millisecond)
	if _, ok := c.Read(ctx); ok {
		t.Error("Read hit at TTL, want miss")
	}

	// Stale entries stay in the store.
	if _, ok, _ := store.Get(ctx, c.DataKey()); !ok {
		t.Error("stale data removed")
	}
}

func TestCache_Disabled(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, _ := newTestCache(store)
	c.Enabled = false

	c.Write(ctx, testDataset())
	if _, ok, _ := store.Get(ctx, c.DataKey()); ok {
		t.Error("disabled cache wrote data")
	}

	_ = store.Set(ctx, c.DataKey(), `{"records":[]}`)
	_ = store.Set(ctx, c.TimestampKey(), strconv.FormatInt(time.Now().UnixMilli(), 10))
	if _, ok := c.Read(ctx); ok {
		t.Error("disabled cache returned a hit")
	}
}

func TestCache_ReadMisses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(s *MemoryStore, c *Cache)
	}{
		{
			name:  "empty store",
			setup: func(s *MemoryStore, c *Cache) {},
		},
		{
			name: "data without timestamp",
			setup: func(s *MemoryStore, c *Cache) {
				_ = s.Set(ctx, c.DataKey(), `{"records":[]}`)
			},
		},
		{
			name: "timestamp without data",
			setup: func(s *MemoryStore, c *Cache) {
				_ = s.Set(ctx, c.TimestampKey(), strconv.FormatInt(c.Now().UnixMilli(), 10))
			},
		},
		{
			name: "unparseable timestamp",
			setup: func(s *MemoryStore, c *Cache) {
				_ = s.Set(ctx, c.DataKey(), `{"records":[]}`)
				_ = s.Set(ctx, c.TimestampKey(), "yesterday")
			},
		},
		{
			name: "corrupt data",
			setup: func(s *MemoryStore, c *Cache) {
				_ = s.Set(ctx, c.DataKey(), `{not json`)
				_ = s.Set(ctx, c.TimestampKey(), strconv.FormatInt(c.Now().UnixMilli(), 10))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			c, _ := newTestCache(store)
			tt.setup(store, c)
			if ds, ok := c.Read(ctx); ok {
				t.Errorf("Read hit with %d records, want miss", ds.Len())
			}
		})
	}
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c, _ := newTestCache(store)
	c.Write(ctx, testDataset())

	c.Clear(ctx)
	if _, ok := c.Read(ctx); ok {
		t.Error("Read hit after Clear")
	}
	if _, ok, _ := store.Get(ctx, c.TimestampKey()); ok {
		t.Error("timestamp key survived Clear")
	}
}

// failingStore fails every operation.
type failingStore struct{}

var errStore = errors.New("store unavailable")

func (failingStore) Get(context.Context, string) (string, bool, error) { return "", false, errStore }
func (failingStore) Set(context.Context, string, string) error         { return errStore }
func (failingStore) SetMany(context.Context, map[string]string) error  { return errStore }
func (failingStore) Delete(context.Context, ...string) error           { return errStore }
func (failingStore) Close() error                                      { return nil }

func TestCache_StoreFailuresSwallowed(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(failingStore{})

	c.Write(ctx, testDataset())
	if _, ok := c.Read(ctx); ok {
		t.Error("Read hit on failing store")
	}
	c.Clear(ctx)
}

// rejectingStore accepts reads and single sets but fails batched writes.
type rejectingStore struct{ *MemoryStore }

func (rejectingStore) SetMany(context.Context, map[string]string) error { return errStore }

func TestCache_FailedWriteKeepsPreviousEntry(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	c, clock := newTestCache(mem)

	first := testDataset()
	c.Write(ctx, first)
	oldTS, _, _ := mem.Get(ctx, c.TimestampKey())

	clock.Advance(time.Minute)
	c.Store = rejectingStore{mem}
	c.Write(ctx, testDataset())

	got, ok := c.Read(ctx)
	if !ok || got.ID != first.ID {
		t.Fatalf("Read = %v, %v; want the first dataset", got, ok)
	}
	if ts, _, _ := mem.Get(ctx, c.TimestampKey()); ts != oldTS {
		t.Errorf("timestamp = %s, want %s untouched", ts, oldTS)
	}
}

func TestCache_DefaultPrefix(t *testing.T) {
	c := New(NewMemoryStore(), time.Minute, "")
	if c.DataKey() != "directory_data" || c.TimestampKey() != "directory_cache_timestamp" {
		t.Errorf("keys = %q, %q", c.DataKey(), c.TimestampKey())
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := store.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	if v, ok, err := store.Get(ctx, "k"); !ok || err != nil || v != "v2" {
		t.Errorf("Get(k) = %q, %v, %v; want v2", v, ok, err)
	}

	if err := store.SetMany(ctx, map[string]string{"k": "v3", "k2": "w"}); err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}
	for key, want := range map[string]string{"k": "v3", "k2": "w"} {
		if v, ok, err := store.Get(ctx, key); !ok || err != nil || v != want {
			t.Errorf("Get(%s) = %q, %v, %v; want %s", key, v, ok, err, want)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.SetMany(cancelled, map[string]string{"k": "lost", "k2": "lost"}); err == nil {
		t.Error("SetMany on cancelled context succeeded")
	}
	if v, _, _ := store.Get(ctx, "k"); v != "v3" {
		t.Errorf("Get(k) = %q after failed SetMany, want v3", v)
	}

	if err := store.Delete(ctx, "k", "k2", "missing"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("key survived Delete")
	}
}

func TestSQLiteStore_BacksCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	c, _ := newTestCache(store)
	ds := testDataset()
	c.Write(ctx, ds)
	store.Close()

	// A new process opening the same file sees the entry.
	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	c2, _ := newTestCache(reopened)
	got, ok := c2.Read(ctx)
	if !ok {
		t.Fatal("Read missed after reopen")
	}
	if got.ID != ds.ID || got.Len() != 2 {
		t.Errorf("got id=%v len=%d", got.ID, got.Len())
	}
}
