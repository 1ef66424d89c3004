package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 3
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	ctx   context.Context
	now   time.Time
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryBucketStore(WithMemoryClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("requests up to limit allowed", func() {
		for i := range testLimit {
			result, err := s.store.Allow(s.ctx, "k:limit", testLimit, testWindow)
			s.Require().NoError(err)
			s.True(result.Allowed)
			s.Equal(testLimit-i-1, result.Remaining)
		}
	})

	s.Run("request over limit denied with retry hint", func() {
		result, err := s.store.Allow(s.ctx, "k:limit", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Equal(60, result.RetryAfter)
	})

	s.Run("keys are independent", func() {
		result, err := s.store.Allow(s.ctx, "k:other", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}

func (s *InMemoryBucketStoreSuite) TestWindowSlides() {
	for range testLimit {
		_, err := s.store.Allow(s.ctx, "k:slide", testLimit, testWindow)
		s.Require().NoError(err)
	}
	s.now = s.now.Add(30 * time.Second)
	result, err := s.store.Allow(s.ctx, "k:slide", testLimit, testWindow)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Equal(30, result.RetryAfter)

	s.now = s.now.Add(31 * time.Second)
	result, err = s.store.Allow(s.ctx, "k:slide", testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *InMemoryBucketStoreSuite) TestReset() {
	for range testLimit {
		_, _ = s.store.Allow(s.ctx, "k:reset", testLimit, testWindow)
	}
	s.Require().NoError(s.store.Reset(s.ctx, "k:reset"))
	result, err := s.store.Allow(s.ctx, "k:reset", testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *InMemoryBucketStoreSuite) TestConcurrentAllowNeverExceedsLimit() {
	const goroutines = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.store.Allow(s.ctx, "k:concurrent", 10, testWindow)
			if err == nil && result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(10, allowed)
}

func (s *InMemoryBucketStoreSuite) TestIdleBucketsAreDropped() {
	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		_, err := s.store.Allow(s.ctx, "ip:"+ip, testLimit, testWindow)
		s.Require().NoError(err)
	}
	s.Len(s.store.buckets, 3)

	s.now = s.now.Add(testWindow + time.Second)
	result, err := s.store.Allow(s.ctx, "ip:10.0.0.9", testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)

	s.Len(s.store.buckets, 1, "callers idle for a full window no longer hold a bucket")
	s.Contains(s.store.buckets, "ip:10.0.0.9")
}
