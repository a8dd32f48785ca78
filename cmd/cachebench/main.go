package main

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/pkg/database"
)

type request struct {
	userID string
	page   int
	size   int
}

type scenarioResult struct {
	durations   []time.Duration
	counters    cache.Counters
	cacheKeys   int
	memoryBytes int64
}

// 粉丝列表渲染 = 分页取粉丝 ID + 批量解析用户快照，对比直读存储与 redis 缓存
func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	if cfg.Redis.Addr == "" {
		panic("cachebench needs redis.addr")
	}
	db := must(database.InitDB(cfg))

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("redis %s: %v", cfg.Redis.Addr, err))
	}

	const userCount = 20000

	fmt.Println("Setting up test data...")
	celebs := make([]model.User, 3)
	for i := range celebs {
		id := uuid.NewString()
		celebs[i] = model.User{ID: id, Name: "celeb", Username: "celeb-" + id[:8], Email: id + "@example.com", PasswordHash: "x", Version: 1}
	}
	mustDo(db.Create(&celebs).Error)

	followers := make([]model.User, userCount)
	for i := range followers {
		id := uuid.NewString()
		followers[i] = model.User{
			ID:           id,
			Name:         fmt.Sprintf("user %d", i),
			Username:     "u" + id,
			Email:        id + "@example.com",
			PasswordHash: "x",
			Version:      1,
		}
	}
	mustDo(db.CreateInBatches(&followers, 1000).Error)

	// 三个名人各 10k 粉丝，两两重叠一半
	base := time.Now()
	offsets := []int{0, userCount / 4, userCount * 3 / 8}
	for c, off := range offsets {
		fans := make([]model.Fan, userCount/2)
		follows := make([]model.Follow, userCount/2)
		for i := range fans {
			f := followers[(i+off)%userCount].ID
			at := base.Add(-time.Duration(i) * time.Second)
			fans[i] = model.Fan{ID: uuid.NewString(), UserID: celebs[c].ID, FanID: f, CreatedAt: at}
			follows[i] = model.Follow{ID: uuid.NewString(), FollowerID: f, FolloweeID: celebs[c].ID, CreatedAt: at}
		}
		mustDo(db.CreateInBatches(&fans, 1000).Error)
		mustDo(db.CreateInBatches(&follows, 1000).Error)
	}
	fmt.Println("Test data ready: 3 users with overlapping followers")

	users := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)

	reqs := make([]request, 0, 9000)
	for i, c := range celebs {
		reqs = append(reqs, makeRequests(c.ID, 3000, int64(42+i))...)
	}

	direct := runScenario(ctx, cache.NewUserCache(nil, users, followRepo, fanRepo, cfg.Redis.TTL), reqs, false, rdb)
	cold := runScenario(ctx, cache.NewUserCache(rdb, users, followRepo, fanRepo, cfg.Redis.TTL), reqs, false, rdb)
	warm := runScenario(ctx, cache.NewUserCache(rdb, users, followRepo, fanRepo, cfg.Redis.TTL), reqs, true, rdb)

	fmt.Printf("\nFollower page render (%d req across 3 users, %d users)\n", len(reqs), userCount)
	report("No cache", direct)
	report("Redis (cold)", cold)
	report("Redis (warm)", warm)
}

func report(name string, r scenarioResult) {
	fmt.Printf("%-14s avg=%v p95=%v p99=%v index_loads=%d user_loads=%d cache_keys=%d mem=%s\n",
		name, avg(r.durations), pct(r.durations, 0.95), pct(r.durations, 0.99),
		r.counters.IndexLoads, r.counters.UserLoads, r.cacheKeys, formatBytes(r.memoryBytes))
}

func renderPage(ctx context.Context, c *cache.UserCache, r request) error {
	ids, err := c.FollowerIDs(ctx, r.userID, (r.page-1)*r.size, r.size)
	if err != nil {
		return err
	}
	_, err = c.Snapshots(ctx, ids)
	return err
}

func runScenario(ctx context.Context, c *cache.UserCache, reqs []request, warm bool, rdb *redis.Client) scenarioResult {
	mustDo(rdb.FlushDB(ctx).Err())

	if warm {
		fmt.Print("  Warming cache...")
		for _, r := range reqs {
			mustDo(renderPage(ctx, c, r))
		}
		fmt.Println(" done")
	}
	c.ResetCounters()

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for _, r := range reqs {
		start := time.Now()
		mustDo(renderPage(ctx, c, r))
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	keys, _ := rdb.DBSize(ctx).Result()
	var memBytes int64
	if info, err := rdb.Info(ctx, "memory").Result(); err == nil {
		memBytes = parseRedisMemory(info)
	}
	return scenarioResult{durations: out, counters: c.Counters(), cacheKeys: int(keys), memoryBytes: memBytes}
}

// parseRedisMemory 从 INFO memory 中取 used_memory
func parseRedisMemory(info string) int64 {
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		if v, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "used_memory:"); ok {
			n, _ := strconv.ParseInt(v, 10, 64)
			return n
		}
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func makeRequests(userID string, n int, seed int64) []request {
	sizes := []int{20, 40, 60}
	out := make([]request, n)
	rnd := rand.New(rand.NewSource(seed))
	for i := range out {
		page := 1
		if rnd.Float64() > 0.72 {
			// 深翻页
			page = 2 + rnd.Intn(120)
		}
		out[i] = request{userID: userID, page: page, size: sizes[rnd.Intn(len(sizes))]}
	}
	return out
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
