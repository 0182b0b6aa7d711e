package userlock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLocalLockerSerializesSameUser(t *testing.T) {
	l := NewLocal()
	userID := uuid.New()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), userID)
			if err != nil {
				t.Errorf("Lock: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	if maxInside != 1 {
		t.Fatalf("concurrent holders: want=1 got=%d", maxInside)
	}
	if n := len(l.(*localLocker).locks); n != 0 {
		t.Fatalf("lock entries after release: want=0 got=%d", n)
	}
}

func TestLocalLockerDifferentUsersDoNotBlock(t *testing.T) {
	l := NewLocal()
	unlockA, err := l.Lock(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Lock A: %v", err)
	}
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	unlockB, err := l.Lock(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Lock B: %v", err)
	}
	unlockB()
}

func TestLocalLockerHonorsContext(t *testing.T) {
	l := NewLocal()
	userID := uuid.New()
	unlock, err := l.Lock(context.Background(), userID)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, userID); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Lock while held: want=%v got=%v", context.DeadlineExceeded, err)
	}

	unlock()
	unlock()
	again, err := l.Lock(context.Background(), userID)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	again()
}
