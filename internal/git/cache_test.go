package git

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedProbeServesRepeatsUntilInvalidated(t *testing.T) {
	inner := &fakeProbe{status: " M a\x00", branches: "", diff: sampleDiff}
	c := NewCachedProbe(inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Status(ctx)
		require.NoError(t, err)
		_, err = c.Diff(ctx, "a", false)
		require.NoError(t, err)
	}
	_, _ = c.Diff(ctx, "a", true)
	assert.Equal(t, 1, inner.count("status"))
	assert.Equal(t, 1, inner.count("diff"))
	assert.Equal(t, 1, inner.count("diff-staged"))

	c.Invalidate()
	_, _ = c.Status(ctx)
	assert.Equal(t, 2, inner.count("status"))
}

func TestCachedProbeDoesNotCacheErrors(t *testing.T) {
	inner := &fakeProbe{err: errors.New("boom")}
	c := NewCachedProbe(inner, time.Minute)
	ctx := context.Background()

	_, err := c.Branches(ctx)
	require.Error(t, err)
	inner.err = nil
	_, err = c.Branches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.count("branches"))
}

func TestCachedProbeZeroTTLPassesThrough(t *testing.T) {
	inner := &fakeProbe{}
	c := NewCachedProbe(inner, 0)
	ctx := context.Background()
	_, _ = c.Status(ctx)
	_, _ = c.Status(ctx)
	c.Invalidate()
	assert.Equal(t, 2, inner.count("status"))
}

func TestDispatcherInvalidatesCache(t *testing.T) {
	inner := &fakeProbe{status: " M a\x00"}
	c := NewCachedProbe(inner, time.Minute)
	d := NewDispatcher(&fakeRunner{}, t.TempDir(), nil, c)
	ctx := context.Background()

	_, _ = c.Status(ctx)
	d.Apply(ctx, Stage{Entries: []Entry{entry(" M", "a")}})
	_, _ = c.Status(ctx)
	assert.Equal(t, 2, inner.count("status"))
}
