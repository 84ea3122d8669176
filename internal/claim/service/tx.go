package service

import (
	"context"
	"hash/fnv"
	"sync"
)

const mutexShards = 128

// ShardedMutexTx serializes claim mutations by hashing the claim key onto a
// fixed set of mutexes. Pairs with the in-memory stores; Postgres
// deployments use row locks via tx.PoolRunner instead.
type ShardedMutexTx struct {
	shards [mutexShards]sync.Mutex
}

func NewShardedMutexTx() *ShardedMutexTx {
	return &ShardedMutexTx{}
}

func (t *ShardedMutexTx) Run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	mu := &t.shards[shardFor(key)]
	mu.Lock()
	defer mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % mutexShards
}
