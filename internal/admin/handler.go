// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/middleware"
	"github.com/mentorcamp/backend/internal/season"
	"github.com/mentorcamp/backend/internal/team"
)

type UserCounter interface {
	Count(ctx context.Context) (total, active int, err error)
}

type RoleDirectory interface {
	UserIDsWithRole(ctx context.Context, role authz.Role) ([]string, error)
}

type TeamLister interface {
	List(ctx context.Context) ([]team.Team, error)
}

type SeasonClock interface {
	Current(ctx context.Context) (*season.Season, bool, error)
}

type Handler struct {
	users      UserCounter
	roles      RoleDirectory
	teams      TeamLister
	seasons    SeasonClock
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	jobs       func() map[string]time.Time
	runJob     func(ctx context.Context, name string) error
}

// HandlerConfig wires the stats sources. Nil system probes are reported
// as healthy with no stats.
type HandlerConfig struct {
	Users      UserCounter
	Roles      RoleDirectory
	Teams      TeamLister
	Seasons    SeasonClock
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	Jobs       func() map[string]time.Time
	RunJob     func(ctx context.Context, name string) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		users:      cfg.Users,
		roles:      cfg.Roles,
		teams:      cfg.Teams,
		seasons:    cfg.Seasons,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
		jobs:       cfg.Jobs,
		runJob:     cfg.RunJob,
	}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/stats", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionStats))

		r.Get("/", h.GetStats)
		r.Get("/system", h.GetSystemStats)
		r.With(middleware.RequireRealAdmin).Post("/jobs/{job}", h.RunJob)
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	program, err := h.programStats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, StatsResponse{
		Program: *program,
		System:  h.systemStats(r.Context()),
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.systemStats(r.Context()))
}

// RunJob executes a scheduled job immediately and waits for it.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	if h.runJob == nil {
		core.NotFound(w, "job")
		return
	}

	name := chi.URLParam(r, "job")
	if err := h.runJob(r.Context(), name); err != nil {
		core.WriteError(w, err, "job")
		return
	}
	core.NoContent(w)
}

func (h *Handler) programStats(ctx context.Context) (*ProgramStats, error) {
	total, active, err := h.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	stats := &ProgramStats{
		Users:       total,
		ActiveUsers: active,
		Roles:       make(map[string]int, len(authz.AllRoles)),
	}

	for _, role := range authz.AllRoles {
		ids, err := h.roles.UserIDsWithRole(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", role, err)
		}
		stats.Roles[string(role)] = len(ids)
	}

	teams, err := h.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("count teams: %w", err)
	}
	stats.Teams = len(teams)

	current, ok, err := h.seasons.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("current season: %w", err)
	}
	if ok {
		stats.CurrentSeason = &current.Name
	}

	return stats, nil
}

var startedAt = time.Now()

func (h *Handler) systemStats(ctx context.Context) SystemStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := SystemStats{
		Database: StoreStatus[DBPoolStats]{Healthy: probe(ctx, h.dbPing), Stats: h.dbPoolStats()},
		Redis:    StoreStatus[RedisPoolStats]{Healthy: probe(ctx, h.redisPing), Stats: h.redisPoolStats()},
		Runtime: RuntimeStats{
			GoVersion:     runtime.Version(),
			Goroutines:    runtime.NumGoroutine(),
			HeapAlloc:     mem.HeapAlloc,
			GCCycles:      mem.NumGC,
			UptimeSeconds: int64(time.Since(startedAt).Seconds()),
		},
	}
	if h.jobs != nil {
		stats.Jobs = h.jobs()
	}
	return stats
}

// probe treats an unconfigured store as healthy.
func probe(ctx context.Context, ping func(ctx context.Context) error) bool {
	return ping == nil || ping(ctx) == nil
}

func (h *Handler) dbPoolStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}
	s := h.dbStats()
	return &DBPoolStats{
		MaxOpen:        s.MaxOpenConnections,
		Open:           s.OpenConnections,
		InUse:          s.InUse,
		Idle:           s.Idle,
		Waits:          s.WaitCount,
		WaitedMillis:   s.WaitDuration.Milliseconds(),
		ClosedIdle:     s.MaxIdleClosed + s.MaxIdleTimeClosed,
		ClosedLifetime: s.MaxLifetimeClosed,
	}
}

func (h *Handler) redisPoolStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}
	s := h.redisStats()
	return &RedisPoolStats{
		Hits:     s.Hits,
		Misses:   s.Misses,
		Timeouts: s.Timeouts,
		Total:    s.TotalConns,
		Idle:     s.IdleConns,
		Stale:    s.StaleConns,
	}
}
