package ban

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tr := NewTracker(redissvc.NewRedisService(rdb), Options{
		MaxStrikes:   3,
		StrikeWindow: time.Minute,
		BanDuration:  10 * time.Minute,
	}, nil)
	tr.now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	return tr, mr
}

func TestRecordStrike_BansAfterMaxStrikes(t *testing.T) {
	tr, mr := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		banned, err := tr.RecordStrike(ctx, "1.2.3.4", "/api/products")
		require.NoError(t, err)
		assert.False(t, banned)
	}

	banned, err := tr.IsBanned(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, banned)

	banned, err = tr.RecordStrike(ctx, "1.2.3.4", "/api/products")
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = tr.IsBanned(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, banned)
	assert.False(t, mr.Exists("ratelimit:strikes:1.2.3.4"), "strikes reset once banned")

	other, err := tr.IsBanned(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestRecordStrike_WindowExpires(t *testing.T) {
	tr, mr := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := tr.RecordStrike(ctx, "1.2.3.4", "/api/products")
		require.NoError(t, err)
	}
	mr.FastForward(2 * time.Minute)

	banned, err := tr.RecordStrike(ctx, "1.2.3.4", "/api/products")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestBanExpires(t *testing.T) {
	tr, mr := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tr.RecordStrike(ctx, "1.2.3.4", "/api/products")
		require.NoError(t, err)
	}
	mr.FastForward(11 * time.Minute)

	banned, err := tr.IsBanned(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestRecordStrike_AppendsBanLog(t *testing.T) {
	tr, mr := newTestTracker(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tr.RecordStrike(ctx, "1.2.3.4", "/api/products/{id}")
		require.NoError(t, err)
	}

	items, err := mr.List(DailyBanLogKey)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var entry BanLogEntry
	require.NoError(t, json.Unmarshal([]byte(items[0]), &entry))
	assert.Equal(t, "1.2.3.4", entry.Target)
	assert.Equal(t, "/api/products/{id}", entry.Route)
	assert.Equal(t, 3, entry.Strikes)
}

func TestSendDailyBanSummary(t *testing.T) {
	tr, mr := newTestTracker(t)
	ctx := context.Background()

	tr.logBanEvent(ctx, "a", "/api/products", 3)
	tr.logBanEvent(ctx, "b", "/api/products", 3)
	tr.logBanEvent(ctx, "a", "/api/products/import", 4)
	_, err := mr.RPush(DailyBanLogKey, "not json")
	require.NoError(t, err)

	summary, err := tr.SendDailyBanSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, []Count{{"/api/products", 2}, {"/api/products/import", 1}}, summary.ByRoute)
	assert.Equal(t, []Count{{"a", 2}, {"b", 1}}, summary.ByTarget)
	assert.False(t, mr.Exists(DailyBanLogKey), "log is drained after the summary")
}

func TestSendDailyBanSummary_Empty(t *testing.T) {
	tr, _ := newTestTracker(t)

	summary, err := tr.SendDailyBanSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Entries)
}

func TestStartDailyBanSummary_StopsOnCancel(t *testing.T) {
	tr, _ := newTestTracker(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tr.StartDailyBanSummary(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("summary loop did not stop")
	}
}

// failDel rejects DEL commands and passes everything else through.
type failDel struct{}

func (failDel) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failDel) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "del" {
			cmd.SetErr(errors.New("del refused"))
			return cmd.Err()
		}
		return next(ctx, cmd)
	}
}

func (failDel) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRecordStrike_LogsStrikeResetFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rdb.AddHook(failDel{})
	t.Cleanup(func() { _ = rdb.Close() })

	var buf bytes.Buffer
	tr := NewTracker(redissvc.NewRedisService(rdb), Options{
		MaxStrikes:   1,
		StrikeWindow: time.Minute,
		BanDuration:  time.Minute,
	}, slog.New(slog.NewTextHandler(&buf, nil)))

	banned, err := tr.RecordStrike(context.Background(), "1.2.3.4", "/api/products")
	require.NoError(t, err)
	assert.True(t, banned, "a failed strike reset does not undo the ban")
	assert.Contains(t, buf.String(), "failed to clear strikes")
	assert.Contains(t, buf.String(), "del refused")
	assert.True(t, mr.Exists("ratelimit:ban:1.2.3.4"))
}
