package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyLocks_SameKeySerializes(t *testing.T) {
	locks := newKeyLocks()
	ctx := context.Background()

	unlock, err := locks.Lock(ctx, "a")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := locks.Lock(ctx, "a")
		if assert.NoError(t, err) {
			close(acquired)
			second()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired the key while the first still held it")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the key")
	}
}

func TestKeyLocks_DifferentKeysDoNotBlock(t *testing.T) {
	locks := newKeyLocks()
	ctx := context.Background()

	unlockA, err := locks.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlockB, err := locks.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyLocks_CancelWhileWaiting(t *testing.T) {
	locks := newKeyLocks()

	unlock, err := locks.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locks.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Equal(t, 0, locks.size(), "released keys are forgotten")
}

func TestKeyLocks_Stress(t *testing.T) {
	locks := newKeyLocks()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  = map[string]int{}
		maxSeen int
	)
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := []string{"a", "b", "c"}[i%3]
			unlock, err := locks.Lock(ctx, key)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside[key]++
			maxSeen = max(maxSeen, inside[key])
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside[key]--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.size())
}
