package constants

import "time"

// Cache hashes; CacheBuilder joins hash and key with a colon.
const (
	UserCachePrefix    = "user"
	UserCacheExpiry    = 24 * time.Hour
	AddressCachePrefix = "cep"
	AddressCacheExpiry = 30 * 24 * time.Hour
)
