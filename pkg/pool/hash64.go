// Package pool holds pooled helpers shared by the client packages.
package pool

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

var (
	Hash64 = hash64Pool{
		pool: sync.Pool{
			New: func() interface{} {
				return xxhash.New()
			},
		},
	}
)

type hash64Pool struct {
	pool sync.Pool
}

// Get returns a reset digest. Return it with Put once the sum was taken.
func (b *hash64Pool) Get() *xxhash.Digest {
	xxh := b.pool.Get().(*xxhash.Digest)
	xxh.Reset()
	return xxh
}

func (b *hash64Pool) Put(xxh *xxhash.Digest) {
	b.pool.Put(xxh)
}

// Sum64 hashes the given parts, separated by a zero byte so that
// ("ab", "c") and ("a", "bc") produce different sums.
func (b *hash64Pool) Sum64(parts ...[]byte) uint64 {
	xxh := b.Get()
	defer b.Put(xxh)

	for i, part := range parts {
		if i > 0 {
			_, _ = xxh.Write([]byte{0})
		}
		_, _ = xxh.Write(part)
	}

	return xxh.Sum64()
}
