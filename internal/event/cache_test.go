package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheEvent(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	resp := &Response{ID: 7, Name: "Jazz Night", Date: "2026-11-20", Time: "19:30:00", Price: 10}
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	mock.ExpectMGet("event:7", "event:7:gen").SetVal([]interface{}{nil, nil})
	_, stamp, ok := cache.GetEvent(ctx, 7)
	require.False(t, ok)
	assert.Equal(t, Stamp("0"), stamp)

	mock.ExpectEvalSha(fillScript.Hash(), []string{"event:7", "event:7:gen"}, string(data), "0", int64(60000)).SetVal(int64(1))
	cache.SetEvent(ctx, resp, stamp)

	mock.ExpectMGet("event:7", "event:7:gen").SetVal([]interface{}{string(data), nil})
	got, _, ok := cache.GetEvent(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, resp.Name, got.Name)
	assert.Equal(t, resp.Date, got.Date)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheListAndInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	list := []Response{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	data, err := json.Marshal(list)
	require.NoError(t, err)

	mock.ExpectMGet("events:all", "events:all:gen").SetVal([]interface{}{string(data), "4"})
	got, stamp, ok := cache.GetList(ctx)
	require.True(t, ok)
	assert.Len(t, got, 2)
	assert.Equal(t, Stamp("4"), stamp)

	mock.ExpectEvalSha(invalidateScript.Hash(),
		[]string{"events:all", "events:all:gen", "event:2", "event:2:gen"},
		genTTL.Milliseconds(),
	).SetVal(int64(1))
	cache.Invalidate(ctx, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

// A read that missed before a write must not put the pre-write row back
// once the write has invalidated.
func TestRedisCacheDropsFillAfterInvalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	stale := &Response{ID: 9, Name: "Old name"}
	data, err := json.Marshal(stale)
	require.NoError(t, err)

	mock.ExpectMGet("event:9", "event:9:gen").SetVal([]interface{}{nil, "1"})
	_, stamp, ok := cache.GetEvent(ctx, 9)
	require.False(t, ok)

	mock.ExpectEvalSha(invalidateScript.Hash(),
		[]string{"events:all", "events:all:gen", "event:9", "event:9:gen"},
		genTTL.Milliseconds(),
	).SetVal(int64(1))
	cache.Invalidate(ctx, 9)

	// generation is now 2, the script refuses the stamp-1 fill
	mock.ExpectEvalSha(fillScript.Hash(), []string{"event:9", "event:9:gen"}, string(data), "1", int64(60000)).SetVal(int64(0))
	cache.SetEvent(ctx, stale, stamp)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheErrorsAreMisses(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	mock.ExpectMGet("events:all", "events:all:gen").SetErr(errors.New("connection refused"))
	_, stamp, ok := cache.GetList(ctx)
	assert.False(t, ok)
	assert.Empty(t, stamp)

	// no stamp, no fill: the mock fails on any unexpected command
	cache.SetList(ctx, []Response{{ID: 1}}, stamp)

	mock.ExpectMGet("event:3", "event:3:gen").SetVal([]interface{}{"{not json", "2"})
	_, stamp, ok = cache.GetEvent(ctx, 3)
	assert.False(t, ok)
	assert.Equal(t, Stamp("2"), stamp)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDateClockRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", v)

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, d, scanned)
	require.NoError(t, scanned.Scan([]byte("2026-02-28T00:00:00Z")))
	assert.Equal(t, d, scanned)

	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)

	c, err := ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", c.String())
	assert.Equal(t, "07:05", c.Short())

	var sc Clock
	require.NoError(t, sc.Scan("19:30:15.000000"))
	assert.Equal(t, Clock{Hour: 19, Minute: 30, Second: 15}, sc)
	require.NoError(t, sc.Scan("0000-01-01 08:00:00+00:00"))
	assert.Equal(t, Clock{Hour: 8}, sc)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{in: 12.5, want: 12.5},
		{in: "19.99", want: 19.99},
		{in: " 7 ", want: 7},
		{in: 0.0, want: 0},
		{in: "abc", wantErr: true},
		{in: -1.0, wantErr: true},
		{in: true, wantErr: true},
		{in: nil, wantErr: true},
	}
	for _, tt := range tests {
		got, err := coercePrice(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
