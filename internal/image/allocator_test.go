package imagepkg

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constRNG float64

func (c constRNG) Float64() float64 { return float64(c) }

func fixedClock() time.Time { return time.UnixMilli(1700000000000) }

func newTestAllocator(photos int, illustrations []string, seed uint64) *Allocator {
	a := NewAllocator(illustrations, NewSeededRNG(seed))
	a.PhotoPoolSize = photos
	a.Now = fixedClock
	return a
}

func TestDraw_NoPoolEnabled(t *testing.T) {
	a := newTestAllocator(10, DefaultIllustrations("", 3), 1)
	used := NewUsedSet()
	used.Add(KindPhoto, "existing")

	_, err := a.Draw(used, PoolConfig{})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.ErrorIs(t, err, ErrNoPoolEnabled)
	assert.Equal(t, 1, used.Len())
	assert.ElementsMatch(t, []string{"existing"}, used.Keys())
}

func TestDraw_IllustrationsArePermutationBeforeRepeat(t *testing.T) {
	pool := []string{"/a.png", "/b.png", "/c.png"}
	for seed := uint64(0); seed < 20; seed++ {
		a := newTestAllocator(0, pool, seed)
		used := NewUsedSet()
		pools := PoolConfig{Illustrations: true}

		var got []string
		for i := 0; i < 3; i++ {
			ref, err := a.Draw(used, pools)
			require.NoError(t, err)
			assert.Equal(t, KindIllustration, ref.Kind)
			got = append(got, ref.Key)
		}
		assert.ElementsMatch(t, pool, got, "seed %d", seed)

		ref, err := a.Draw(used, pools)
		require.NoError(t, err)
		assert.Contains(t, pool, ref.Key)
		assert.Equal(t, 3, used.Len())
	}
}

func TestDraw_CombinedOneOfEach(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		a := newTestAllocator(1, []string{"/only.png"}, seed)
		used := NewUsedSet()
		pools := PoolConfig{Photos: true, Illustrations: true}

		kinds := map[Kind]int{}
		for i := 0; i < 2; i++ {
			ref, err := a.Draw(used, pools)
			require.NoError(t, err)
			kinds[ref.Kind]++
		}
		assert.Equal(t, map[Kind]int{KindPhoto: 1, KindIllustration: 1}, kinds, "seed %d", seed)
	}
}

func TestDraw_PhotoExhaustionTerminates(t *testing.T) {
	a := newTestAllocator(5, nil, 7)
	used := NewUsedSet()
	pools := PoolConfig{Photos: true}

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		ref, err := a.Draw(used, pools)
		require.NoError(t, err)
		require.False(t, seen[ref.Key], "repeat before exhaustion: %s", ref.Key)
		seen[ref.Key] = true
	}

	done := make(chan Reference, 1)
	go func() {
		ref, _ := a.Draw(used, pools)
		done <- ref
	}()
	select {
	case ref := <-done:
		assert.True(t, seen[ref.Key])
	case <-time.After(2 * time.Second):
		t.Fatal("draw on exhausted photo pool did not return")
	}
	assert.Equal(t, 5, used.Count(KindPhoto))
}

func TestDraw_PhotoScanFallbackWithStuckRNG(t *testing.T) {
	a := NewAllocator(nil, constRNG(0))
	a.PhotoPoolSize = 3
	a.Now = fixedClock
	used := NewUsedSet()

	var keys []string
	for i := 0; i < 3; i++ {
		ref, err := a.Draw(used, PoolConfig{Photos: true})
		require.NoError(t, err)
		keys = append(keys, ref.Key)
	}
	assert.Equal(t, []string{
		fmt.Sprintf(DefaultPhotoURLTemplate, 0),
		fmt.Sprintf(DefaultPhotoURLTemplate, 1),
		fmt.Sprintf(DefaultPhotoURLTemplate, 2),
	}, keys)
}

func TestDraw_NeverReusesWhileCapacityRemains(t *testing.T) {
	pools := PoolConfig{Photos: true, Illustrations: true}
	for seed := uint64(0); seed < 10; seed++ {
		a := newTestAllocator(20, DefaultIllustrations("/assets", 10), seed)
		used := NewUsedSet()
		for used.Len() < a.Capacity(pools) {
			before := used.Len()
			ref, err := a.Draw(used, pools)
			require.NoError(t, err)
			assert.Equal(t, before+1, used.Len(), "seed %d drew used key %s", seed, ref.Key)
		}
		assert.Equal(t, 20, used.Count(KindPhoto))
		assert.Equal(t, 10, used.Count(KindIllustration))
	}
}

func TestDraw_CacheBustingSuffix(t *testing.T) {
	a := newTestAllocator(1, []string{"/x.png"}, 3)

	ref, err := a.Draw(NewUsedSet(), PoolConfig{Photos: true})
	require.NoError(t, err)
	assert.Equal(t, ref.Key+"&t=1700000000000", ref.URL)

	ref, err = a.Draw(NewUsedSet(), PoolConfig{Illustrations: true})
	require.NoError(t, err)
	assert.Equal(t, "/x.png?t=1700000000000", ref.URL)
	assert.False(t, strings.Contains(ref.Key, "t="))
}

func TestDraw_EmptyEnabledPool(t *testing.T) {
	a := newTestAllocator(0, nil, 1)
	used := NewUsedSet()
	_, err := a.Draw(used, PoolConfig{Illustrations: true})
	assert.ErrorIs(t, err, ErrNoPoolEnabled)
	assert.Zero(t, used.Len())
}

func TestUsedSet(t *testing.T) {
	var u UsedSet
	assert.False(t, u.Has("a"))
	u.Add(KindPhoto, "a")
	u.Add(KindPhoto, "a")
	u.Add(KindIllustration, "b")
	assert.Equal(t, 2, u.Len())
	assert.Equal(t, 1, u.Count(KindPhoto))
	assert.Equal(t, 1, u.Count(KindIllustration))

	u.Reset()
	assert.Zero(t, u.Len())
	assert.False(t, u.Has("a"))
}
