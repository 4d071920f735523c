package redis

import "fmt"

// Key prefix for all transfer market cache data
const keyPrefix = "ffm:transfers"

// versionKey returns the Redis key holding the listing namespace version
func versionKey() string {
	return fmt.Sprintf("%s:version", keyPrefix)
}

// pageKey returns the Redis key for a cached listing page
func pageKey(key string) string {
	return fmt.Sprintf("%s:list:%s", keyPrefix, key)
}
