package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceTokenFormat(t *testing.T) {
	g := ReferenceGenerator{}
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	ref, err := g.Next(context.Background(), nil, day)
	require.NoError(t, err)

	parts := strings.Split(ref, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "BKG", parts[0])
	assert.Equal(t, "20260310", parts[1])
	assert.Len(t, parts[2], 8)
	assert.Equal(t, strings.ToUpper(parts[2]), parts[2])
}

// Token references must never collide under concurrent generation; there is
// no shared counter to race on.
func TestReferenceTokenConcurrentUniqueness(t *testing.T) {
	const n = 2000

	g := ReferenceGenerator{}
	day := time.Now()

	var (
		mu   sync.Mutex
		seen = make(map[string]bool, n)
		wg   sync.WaitGroup
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := g.Next(context.Background(), nil, day)
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[ref] {
				t.Errorf("duplicate reference %s", ref)
			}
			seen[ref] = true
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestTransactionIDFormat(t *testing.T) {
	g := ReferenceGenerator{}

	a := g.NextTransactionID()
	b := g.NextTransactionID()

	assert.True(t, strings.HasPrefix(a, "TXN-"))
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
}
