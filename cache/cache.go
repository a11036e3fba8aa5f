// Package cache provides exact-hash segment caches layered in front of the
// persistent translation memory. Keys are segment-hash:lang-pair strings
// (see transmem.CacheKey); values are cleaned translations. A cache hit
// skips both the store's similarity scan and the provider call.
package cache

// SegmentCache is the interface for segment caching.
type SegmentCache interface {
	// Get retrieves a cached translation. Returns empty string and false
	// if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}
