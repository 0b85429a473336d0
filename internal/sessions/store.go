package sessions

import "context"

// Keys used in the local key/value store.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

// Store is a small durable key/value map holding the cached session.
type Store interface {
	Save(ctx context.Context, key, value string) error
	// Get reports found=false for a missing key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Clear removes every key.
	Clear(ctx context.Context) error
}
