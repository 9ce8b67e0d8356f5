package imagepkg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPhotoPoolSize    = 1000
	DefaultPhotoURLTemplate = "https://picsum.photos/200/300?random=%d"
)

// Allocator draws image references that do not repeat within a batch until
// the enabled pools run dry. It holds no batch state; callers pass the
// UsedSet for their batch into every Draw.
type Allocator struct {
	PhotoPoolSize    int
	PhotoURLTemplate string // fmt template taking the photo id
	Illustrations    []string
	RNG              RandomSource
	Now              func() time.Time
}

// NewAllocator returns an allocator over the default photo pool and the
// given illustration list.
func NewAllocator(illustrations []string, rng RandomSource) *Allocator {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Allocator{
		PhotoPoolSize:    DefaultPhotoPoolSize,
		PhotoURLTemplate: DefaultPhotoURLTemplate,
		Illustrations:    append([]string(nil), illustrations...),
		RNG:              rng,
		Now:              time.Now,
	}
}

// Capacity is the number of distinct keys the enabled pools can produce.
func (a *Allocator) Capacity(pools PoolConfig) int {
	n := 0
	if pools.Photos {
		n += a.PhotoPoolSize
	}
	if pools.Illustrations {
		n += len(a.Illustrations)
	}
	return n
}

// Draw returns one reference and records its key in used.
// With both pools enabled each draw picks a pool with probability 0.5; a
// pool that is exhausted yields to the other one while it still has
// unused keys. A disabled-everything config returns a *ConfigurationError
// and leaves used untouched.
func (a *Allocator) Draw(used *UsedSet, pools PoolConfig) (Reference, error) {
	if err := pools.Validate(); err != nil {
		return Reference{}, err
	}
	if pools.Photos && a.PhotoPoolSize <= 0 {
		pools.Photos = false
	}
	if pools.Illustrations && len(a.Illustrations) == 0 {
		pools.Illustrations = false
	}
	if !pools.Photos && !pools.Illustrations {
		return Reference{}, fmt.Errorf("enabled image pools are empty: %w", ErrNoPoolEnabled)
	}

	kind := KindIllustration
	switch {
	case pools.Photos && pools.Illustrations:
		if a.rng().Float64() < 0.5 {
			kind = KindPhoto
		}
		if a.exhausted(used, kind) {
			other := KindPhoto
			if kind == KindPhoto {
				other = KindIllustration
			}
			if !a.exhausted(used, other) {
				kind = other
			}
		}
	case pools.Photos:
		kind = KindPhoto
	}

	if kind == KindPhoto {
		return a.drawPhoto(used), nil
	}
	return a.drawIllustration(used), nil
}

func (a *Allocator) exhausted(used *UsedSet, kind Kind) bool {
	if kind == KindPhoto {
		return used.Count(KindPhoto) >= a.PhotoPoolSize
	}
	for _, key := range a.Illustrations {
		if !used.Has(key) {
			return false
		}
	}
	return true
}

// drawPhoto rejection-samples ids. Sampling stops once the photo pool is
// exhausted or the attempt budget is spent; in the latter case a linear
// scan from a random offset finds the unused id.
func (a *Allocator) drawPhoto(used *UsedSet) Reference {
	size := a.PhotoPoolSize
	maxAttempts := 4 * size
	if maxAttempts < 16 {
		maxAttempts = 16
	}

	id := Intn(a.rng(), size)
	key := a.photoKey(id)
	for attempt := 1; used.Has(key) && used.Count(KindPhoto) < size; attempt++ {
		if attempt >= maxAttempts {
			for step := 1; step < size; step++ {
				next := a.photoKey((id + step) % size)
				if !used.Has(next) {
					key = next
					break
				}
			}
			break
		}
		id = Intn(a.rng(), size)
		key = a.photoKey(id)
	}

	used.Add(KindPhoto, key)
	return Reference{Kind: KindPhoto, Key: key, URL: a.bust(key)}
}

func (a *Allocator) drawIllustration(used *UsedSet) Reference {
	available := make([]string, 0, len(a.Illustrations))
	for _, key := range a.Illustrations {
		if !used.Has(key) {
			available = append(available, key)
		}
	}
	source := available
	if len(source) == 0 {
		source = a.Illustrations
	}
	key := source[Intn(a.rng(), len(source))]

	used.Add(KindIllustration, key)
	return Reference{Kind: KindIllustration, Key: key, URL: a.bust(key)}
}

func (a *Allocator) photoKey(id int) string {
	tmpl := a.PhotoURLTemplate
	if tmpl == "" {
		tmpl = DefaultPhotoURLTemplate
	}
	return fmt.Sprintf(tmpl, id)
}

// bust appends a timestamp so a repeated key is not served from a stale cache.
func (a *Allocator) bust(key string) string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	sep := "?"
	if strings.Contains(key, "?") {
		sep = "&"
	}
	return key + sep + "t=" + strconv.FormatInt(now().UnixMilli(), 10)
}

func (a *Allocator) rng() RandomSource {
	if a.RNG == nil {
		a.RNG = DefaultRNG()
	}
	return a.RNG
}
