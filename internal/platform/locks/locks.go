// Package locks provides per-key mutual exclusion. Commands targeting the
// same truck serialize on one mutex while commands for different trucks
// proceed in parallel on other shards.
package locks

import (
	"hash/fnv"
	"sync"
)

const shardCount = 64

// Keyed is a fixed table of mutex shards indexed by key hash.
type Keyed struct {
	shards [shardCount]sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{}
}

// Lock acquires the shard for the key and returns its unlock function.
func (k *Keyed) Lock(key string) func() {
	shard := &k.shards[shardIndex(key)]
	shard.Lock()
	return shard.Unlock
}

func shardIndex(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
