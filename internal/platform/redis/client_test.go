package redis

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statuslist/internal/platform/config"
)

func TestNew_EmptyURL(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{}, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "not-a-url://"}, prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis URL")
}

func TestApplyOverrides(t *testing.T) {
	opts := &redis.Options{PoolSize: 3, ReadTimeout: time.Second}
	applyOverrides(opts, config.RedisConfig{MinIdleConns: 4, WriteTimeout: 2 * time.Second})

	assert.Equal(t, 3, opts.PoolSize)
	assert.Equal(t, time.Second, opts.ReadTimeout)
	assert.Equal(t, 4, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.WriteTimeout)
}

func TestRecordPoolStats_Deltas(t *testing.T) {
	c := &Client{metrics: newPoolMetrics(prometheus.NewRegistry())}

	c.record(&redis.PoolStats{Hits: 5, Misses: 2, TotalConns: 4, IdleConns: 3})
	assert.Equal(t, 5.0, testutil.ToFloat64(c.metrics.hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.misses))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.metrics.totalConns))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.metrics.idleConns))

	c.record(&redis.PoolStats{Hits: 8, Misses: 2, Timeouts: 1, TotalConns: 2, IdleConns: 1})
	assert.Equal(t, 8.0, testutil.ToFloat64(c.metrics.hits))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.timeouts))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.totalConns))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.idleConns))
}
