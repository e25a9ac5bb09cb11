package api

// Cache-Control header values.
const (
	// CacheNoStore is sent on everything derived from options, which can
	// change at any moment.
	CacheNoStore = "no-store"
	// CacheShort lets proxies hold the health check briefly.
	CacheShort = "public, max-age=5"
)
