package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
	}

	// repositories & services
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	userCache := cache.NewUserCache(rdb, userRepo, followRepo, fanRepo, cfg.Redis.TTL)
	invalidator := service.NewCacheInvalidator(userCache, 100000, cfg.Worker.RecheckDelay)
	stop := invalidator.Start(8)
	relSvc := service.NewRelationshipService(repository.NewTransactor(db), userRepo, followRepo, fanRepo, userCache, invalidator)

	ctx := context.Background()

	N := envInt("N", 10000)
	CONC := envInt("CONC", 1)
	PAGE := envInt("PAGE", 50)

	// seed users: celeb is followed by everyone else
	celeb := &model.User{ID: uuid.New().String(), Name: "celeb", Username: "celeb-" + uuid.New().String()[:8], PasswordHash: "x", Version: 1}
	celeb.Email = celeb.Username + "@example.com"
	must(0, userRepo.Create(ctx, celeb))

	users := make([]*model.User, N)
	batch := 1000
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		users[i] = &model.User{ID: id, Name: "u" + id[:8], Username: "u" + id, Email: id + "@example.com", PasswordHash: "x", Version: 1}
		if (i+1)%batch == 0 {
			sub := users[i+1-batch : i+1]
			must(0, db.Create(&sub).Error)
		}
	}
	if N%batch != 0 {
		sub := users[N-N%batch:]
		must(0, db.Create(&sub).Error)
	}

	maxQ := 0
	quitSample := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if q := invalidator.QueueLen(); q > maxQ {
					maxQ = q
				}
			case <-quitSample:
				return
			}
		}
	}()

	// follow through the service with CONC workers
	workers := CONC
	if workers > N {
		workers = N
	}
	followCh := make(chan time.Duration, N)
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	failures := 0
	errCh := make(chan int, workers)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		go func() {
			failed := 0
			for i := range feed {
				st := time.Now()
				if _, err := relSvc.Follow(ctx, users[i], celeb.ID); err != nil {
					failed++
				}
				followCh <- time.Since(st)
			}
			errCh <- failed
		}()
	}
	for w := 0; w < workers; w++ {
		failures += <-errCh
	}
	close(followCh)
	followRecs := make([]time.Duration, 0, N)
	for d := range followCh {
		followRecs = append(followRecs, d)
	}
	followDur := time.Since(t0)
	close(quitSample)

	drainStart := time.Now()
	_ = stop(ctx)
	drainDur := time.Since(drainStart)

	// queries: first page cold, then warm
	userCache.ResetCounters()
	q0 := time.Now()
	_, _ = relSvc.ListFans(ctx, celeb.ID, 1, PAGE)
	coldDur := time.Since(q0)

	q1 := time.Now()
	_, _ = relSvc.ListFans(ctx, celeb.ID, 2, PAGE)
	warmDur := time.Since(q1)

	q2 := time.Now()
	_, _ = relSvc.ListFollowing(ctx, users[0].ID, 1, PAGE)
	follDur := time.Since(q2)
	counters := userCache.Counters()

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		if k >= len(xs) {
			k = len(xs) - 1
		}
		return xs[k]
	}

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, redis=%v\n", N, CONC, PAGE, rdb != nil)
	fmt.Printf("Follow (tx double write) total: %v, per op: %v, p50: %v, p95: %v, p99: %v, failures: %d\n",
		followDur, followDur/time.Duration(N), pct(followRecs, 0.50), pct(followRecs, 0.95), pct(followRecs, 0.99), failures)
	fmt.Printf("Invalidation queue: max=%d, drain=%v\n", maxQ, drainDur)
	fmt.Printf("Query followers page 1 (cold): %v, page 2 (warm): %v\n", coldDur, warmDur)
	fmt.Printf("Query following(%d) latency: %v\n", PAGE, follDur)
	fmt.Printf("Store loads: index=%d\n", counters.IndexLoads)
}
