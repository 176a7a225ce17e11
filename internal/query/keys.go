package query

import "strings"

// Query names. The first segment of every Key is one of these.
const (
	GetCurrentUser   = "getCurrentUser"
	GetUsers         = "getUsers"
	GetUserByID      = "getUserById"
	GetInfinitePosts = "getInfinitePosts"
	GetRecentPosts   = "getRecentPosts"
	GetPostByID      = "getPostById"
	GetUserPosts     = "getUserPosts"
	SearchUsers      = "searchUsers"
	SearchPosts      = "searchPosts"
	GetSavedPosts    = "getSavedPosts"
)

const keySeparator = ":"

// Key identifies a cached query result. A key is a prefix of every key that
// extends it with more segments.
type Key []string

// NewKey builds a key from a query name and its arguments
func NewKey(name string, args ...string) Key {
	return append(Key{name}, args...)
}

func (k Key) String() string {
	return strings.Join(k, keySeparator)
}

// covers reports whether key lies under prefix.
func covers(prefix, key string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+keySeparator)
}
