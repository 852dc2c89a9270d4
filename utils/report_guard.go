package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportGuard caps how many reports one user may file per hour. Counters
// live in redis; any redis failure lets the report through.
type ReportGuard struct {
	rdb   *redis.Client
	limit int
	now   func() time.Time
}

// NewReportGuard returns a guard allowing limit reports per user per hour.
// A nil client or a non-positive limit disables the guard.
func NewReportGuard(rdb *redis.Client, limit int) *ReportGuard {
	return &ReportGuard{rdb: rdb, limit: limit, now: time.Now}
}

func reportKey(user string, hour time.Time) string {
	return "report:hour:" + user + ":" + hour.Format("2006010215")
}

// Allow counts one report attempt for user and reports whether it stays
// within the hourly limit.
func (g *ReportGuard) Allow(ctx context.Context, user string) bool {
	if g == nil || g.rdb == nil || g.limit <= 0 {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	key := reportKey(user, g.now())
	n, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		Sugar.Debugf("report guard incr failed key=%s err=%v", key, err)
		return true
	}
	if n == 1 {
		_ = g.rdb.Expire(ctx, key, time.Hour).Err()
	}
	return n <= int64(g.limit)
}

// Remaining returns how many reports user may still file this hour.
func (g *ReportGuard) Remaining(ctx context.Context, user string) int {
	if g == nil || g.rdb == nil || g.limit <= 0 {
		return -1
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	n, err := g.rdb.Get(ctx, reportKey(user, g.now())).Int()
	if err == redis.Nil {
		return g.limit
	}
	if err != nil {
		return g.limit
	}
	if n >= g.limit {
		return 0
	}
	return g.limit - n
}
