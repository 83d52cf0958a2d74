package dedup

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/user/cartbot/internal/types"
)

func TestSeenAndRemember(t *testing.T) {
	c := New(16, time.Minute)

	if c.Seen("event-1") {
		t.Error("fresh cache should not contain event-1")
	}
	c.Remember("event-1")
	if !c.Seen("event-1") {
		t.Error("expected event-1 after Remember")
	}
	if c.Seen("event-2") {
		t.Error("event-2 was never remembered")
	}
}

func TestSeenHasNoSideEffect(t *testing.T) {
	c := New(16, time.Minute)
	c.Seen("event-1")
	if c.Len() != 0 {
		t.Errorf("Seen inserted an entry: len %d", c.Len())
	}
}

func TestObserveFirstAndSecondSighting(t *testing.T) {
	c := New(16, time.Minute)

	if c.Observe("event-1") {
		t.Error("first Observe should report unseen")
	}
	if !c.Observe("event-1") {
		t.Error("second Observe should report seen")
	}
}

func TestObserveConcurrentSingleFirstSighting(t *testing.T) {
	c := New(64, time.Minute)

	const workers = 16
	firsts := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.Observe("event-racy") {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firsts != 1 {
		t.Errorf("expected exactly one first sighting, got %d", firsts)
	}
}

func TestEntriesExpire(t *testing.T) {
	c := New(16, 20*time.Millisecond)

	c.Remember("event-1")
	if !c.Seen("event-1") {
		t.Fatal("expected event-1 right after Remember")
	}

	time.Sleep(50 * time.Millisecond)
	if c.Seen("event-1") {
		t.Error("expected event-1 to expire")
	}
}

func TestBoundedUnderPressure(t *testing.T) {
	c := New(8, time.Minute)

	for i := 0; i < 100; i++ {
		c.Remember(types.EventID(fmt.Sprintf("event-%d", i)))
	}
	if c.Len() > 8 {
		t.Errorf("cache exceeded bound: len %d", c.Len())
	}
	if !c.Seen("event-99") {
		t.Error("most recent entry should survive eviction")
	}
}
