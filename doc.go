// Package ttlmap implements a concurrency-safe map whose entries carry an
// optional absolute expiration time.
//
// Expiration is lazy: nothing runs in the background. An expired entry stays
// in memory until something touches it. Get evicts the key it reads, while
// Len, Keys and All sweep the whole map. A map that is written and never read
// keeps its expired entries indefinitely; call Len periodically if that
// matters.
//
// Operations that may evict say so in their documentation. Predicates named
// IsExpired never mutate; their EvictIfExpired counterparts do.
package ttlmap
