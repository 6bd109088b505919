package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/danmuck/rowcodec/internal/clock"
	"github.com/danmuck/rowcodec/internal/rows"
	"github.com/danmuck/rowcodec/internal/testutil/testlog"
	"github.com/maxatome/go-testdeep/td"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestReadWriteInvalidate(t *testing.T) {
	testlog.Start(t)
	fake := clock.Fake(epoch)
	s := NewStore[string]("test", WithClock(fake))

	key := s.Key("a")
	if _, ok := key.Read(); ok {
		t.Fatalf("expected miss on empty store")
	}
	key.Write("one")
	got, ok := key.Read()
	if !ok || got != "one" {
		t.Fatalf("read after write: got %q ok=%v", got, ok)
	}
	key.Write("two")
	if got, _ := key.Read(); got != "two" {
		t.Fatalf("write must overwrite, got %q", got)
	}
	key.Invalidate()
	if _, ok := key.Read(); ok {
		t.Fatalf("expected miss after invalidate")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, len=%d", s.Len())
	}
}

func TestReadExpires(t *testing.T) {
	testlog.Start(t)
	fake := clock.Fake(epoch)
	s := NewStore[int]("test", WithClock(fake), WithTTL(time.Minute))
	s.Key("k").Write(1)

	fake.Advance(time.Minute)
	if _, ok := s.Key("k").Read(); !ok {
		t.Fatalf("value must be readable at its expiration instant")
	}
	fake.Advance(time.Millisecond)
	if _, ok := s.Key("k").Read(); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if n := s.Prune(); n != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", n)
	}
}

func TestReadFreshWindow(t *testing.T) {
	testlog.Start(t)
	fake := clock.Fake(epoch)
	s := NewStore[int]("test", WithClock(fake))
	key := s.Key("k")
	key.Write(7)

	fake.Advance(DefaultFreshWindow)
	if v, ok := key.ReadFresh(); !ok || v != 7 {
		t.Fatalf("fresh read inside window: v=%d ok=%v", v, ok)
	}
	fake.Advance(time.Second)
	if _, ok := key.ReadFresh(); ok {
		t.Fatalf("expected stale entry to miss fresh read")
	}
	if v, ok := key.Read(); !ok || v != 7 {
		t.Fatalf("plain read must still hit: v=%d ok=%v", v, ok)
	}
	key.Write(8)
	if v, ok := key.ReadFresh(); !ok || v != 8 {
		t.Fatalf("rewrite refreshes: v=%d ok=%v", v, ok)
	}
}

func TestRowCacheCopiesPayloads(t *testing.T) {
	testlog.Start(t)
	c := NewRowCache(WithClock(clock.Fake(epoch)))
	payload := []byte{0x01, 0x01, 'x', 0x00}
	c.Asset("42").Write(rows.AssetRow{AssetID: "42", MutableSerializedData: payload})
	payload[2] = 'y'

	got, ok := c.Asset("42").Read()
	if !ok {
		t.Fatalf("expected hit")
	}
	td.Cmp(t, got.MutableSerializedData, []byte{0x01, 0x01, 'x', 0x00})

	got.MutableSerializedData[2] = 'z'
	written := c.Asset("43").Write(rows.AssetRow{AssetID: "43", MutableSerializedData: []byte{1, 2}})
	written.MutableSerializedData[0] = 0xff
	again, _ := c.Asset("42").Read()
	td.Cmp(t, again.MutableSerializedData, []byte{0x01, 0x01, 'x', 0x00})
	other, _ := c.Asset("43").Read()
	td.Cmp(t, other.MutableSerializedData, []byte{1, 2})

	if _, ok := c.Template("42").Read(); ok {
		t.Fatalf("kinds must not share keys")
	}
	c.Schema("heroes").Write(rows.SchemaRow{SchemaName: "heroes"})
	c.Collection("legends").Write(rows.CollectionRow{CollectionName: "legends"})
	c.Offer("9").Write(rows.OfferRow{OfferID: "9"})
	if got, ok := c.Offer("9").Read(); !ok || got.OfferID != "9" {
		t.Fatalf("offer read: %+v ok=%v", got, ok)
	}
	c.Offer("9").Invalidate()
	if _, ok := c.Offer("9").Read(); ok {
		t.Fatalf("expected offer invalidated")
	}
}

func TestRowCachePrune(t *testing.T) {
	testlog.Start(t)
	fake := clock.Fake(epoch)
	c := NewRowCache(WithClock(fake), WithTTL(time.Second))
	c.Asset("1").Write(rows.AssetRow{AssetID: "1"})
	c.Schema("s").Write(rows.SchemaRow{SchemaName: "s"})
	fake.Advance(2 * time.Second)
	c.Template("3").Write(rows.TemplateRow{TemplateID: 3})
	if n := c.Prune(); n != 2 {
		t.Fatalf("expected 2 pruned, got %d", n)
	}
	if _, ok := c.Template("3").Read(); !ok {
		t.Fatalf("unexpired template must survive prune")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	testlog.Start(t)
	s := NewStore[int]("test")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := s.Key("shared")
			for j := 0; j < 100; j++ {
				key.Write(n)
				key.Read()
				key.ReadFresh()
			}
		}(i)
	}
	wg.Wait()
	if _, ok := s.Key("shared").Read(); !ok {
		t.Fatalf("expected shared key present")
	}
}
