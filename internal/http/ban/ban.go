package ban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
)

const (
	DailyBanLogKey = "ratelimit:banlog:daily"
	strikeKeyFmt   = "ratelimit:strikes:%s"
	banKeyFmt      = "ratelimit:ban:%s"
)

type Options struct {
	// MaxStrikes rate-limit rejections within StrikeWindow ban the client.
	MaxStrikes   int
	StrikeWindow time.Duration
	BanDuration  time.Duration
}

// Tracker counts rate-limit strikes per client and bans repeat offenders.
type Tracker struct {
	rdb    *redis.Client
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

func NewTracker(rs *redissvc.RedisService, opts Options, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{rdb: rs.Rdb(), opts: opts, logger: logger, now: time.Now}
}

// IsBanned reports whether target currently has an active ban.
func (t *Tracker) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := t.rdb.Exists(ctx, fmt.Sprintf(banKeyFmt, target)).Result()
	if err != nil {
		return false, fmt.Errorf("check ban for %s: %w", target, err)
	}
	return n > 0, nil
}

// RecordStrike counts one rejected request. It returns true when this strike
// got target banned.
func (t *Tracker) RecordStrike(ctx context.Context, target, route string) (bool, error) {
	key := fmt.Sprintf(strikeKeyFmt, target)

	n, err := t.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("record strike for %s: %w", target, err)
	}
	if n == 1 {
		if err := t.rdb.Expire(ctx, key, t.opts.StrikeWindow).Err(); err != nil {
			return false, fmt.Errorf("expire strikes for %s: %w", target, err)
		}
	}

	strikes := int(n)
	if strikes < t.opts.MaxStrikes {
		return false, nil
	}

	if err := t.rdb.Set(ctx, fmt.Sprintf(banKeyFmt, target), strikes, t.opts.BanDuration).Err(); err != nil {
		return false, fmt.Errorf("ban %s: %w", target, err)
	}
	if err := t.rdb.Del(ctx, key).Err(); err != nil {
		t.logger.Error("failed to clear strikes", slog.String("target", target), slog.Any("error", err))
	}

	t.logger.Warn("client banned",
		slog.String("target", target),
		slog.String("route", route),
		slog.Int("strikes", strikes),
		slog.Duration("duration", t.opts.BanDuration))
	t.logBanEvent(ctx, target, route, strikes)
	return true, nil
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func (t *Tracker) logBanEvent(ctx context.Context, target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    t.now(),
	}
	data, _ := json.Marshal(entry)
	if err := t.rdb.RPush(ctx, DailyBanLogKey, data).Err(); err != nil {
		t.logger.Error("failed to append ban log", slog.Any("error", err))
	}
}

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type Summary struct {
	Total    int           `json:"total"`
	ByRoute  []Count       `json:"by_route"`
	ByTarget []Count       `json:"by_target"`
	Entries  []BanLogEntry `json:"entries"`
}

// StartDailyBanSummary emits a summary every day at 23:59 local time until
// ctx is done.
func (t *Tracker) StartDailyBanSummary(ctx context.Context) {
	for {
		now := t.now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := t.SendDailyBanSummary(ctx); err != nil {
			t.logger.Error("daily ban summary failed", slog.Any("error", err))
		}
	}
}

// SendDailyBanSummary drains the ban log, aggregates it and logs the result.
// An empty log yields a zero Summary and logs nothing.
func (t *Tracker) SendDailyBanSummary(ctx context.Context) (Summary, error) {
	var lr *redis.StringSliceCmd
	_, err := t.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lr = pipe.LRange(ctx, DailyBanLogKey, 0, -1)
		pipe.Del(ctx, DailyBanLogKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return Summary{}, fmt.Errorf("read ban log: %w", err)
	}

	summary := summarize(lr.Val())
	if summary.Total == 0 {
		return summary, nil
	}

	t.logger.Info("daily ban summary",
		slog.Int("total", summary.Total),
		slog.Any("by_route", summary.ByRoute),
		slog.Any("by_target", summary.ByTarget))
	return summary, nil
}

func summarize(raw []string) Summary {
	s := Summary{Entries: []BanLogEntry{}}
	routeCounts := make(map[string]int)
	targetCounts := make(map[string]int)

	for _, item := range raw {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		s.Entries = append(s.Entries, entry)
		routeCounts[entry.Route]++
		targetCounts[entry.Target]++
	}

	s.Total = len(s.Entries)
	s.ByRoute = sortedCounts(routeCounts)
	s.ByTarget = sortedCounts(targetCounts)
	return s
}

// sortedCounts orders by count descending, then key.
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
