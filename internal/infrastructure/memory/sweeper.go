package memory

import (
	"context"
	"log/slog"
	"time"
)

// expirable is any store that can evict entries past their TTL.
type expirable interface {
	DeleteExpired(now time.Time) int
}

// Sweep periodically evicts expired entries from the given stores until ctx
// is cancelled. It bounds memory growth from abandoned OTP sessions and
// unconsumed verification records; per-request lazy checks remain the
// authority on expiry.
func Sweep(ctx context.Context, interval time.Duration, stores ...expirable) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := 0
			for _, st := range stores {
				removed += st.DeleteExpired(now)
			}
			if removed > 0 {
				slog.Debug("swept expired entries", "count", removed)
			}
		}
	}
}
