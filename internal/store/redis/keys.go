package redis

const (
	// KeyPrefixSession is the prefix for edit-session snapshot keys
	KeyPrefixSession = "islandhop:session:"
	// KeyIslands holds the cached islands list
	KeyIslands = "islandhop:islands"
	// KeyAllSessions is the set of all persisted session IDs
	KeyAllSessions = "islandhop:sessions:all"
)

// SessionKey returns the Redis key for a session snapshot
func SessionKey(id string) string {
	return KeyPrefixSession + id
}

// IslandsKey returns the key of the cached islands list
func IslandsKey() string {
	return KeyIslands
}

// AllSessionsKey returns the key for the set of all session IDs
func AllSessionsKey() string {
	return KeyAllSessions
}
