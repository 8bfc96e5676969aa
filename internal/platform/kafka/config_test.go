package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultProducerConfig(t *testing.T) {
	cfg := DefaultProducerConfig("a:9092,b:9092")

	assert.Equal(t, "a:9092,b:9092", cfg.Brokers)
	assert.Equal(t, "statuslist", cfg.ClientID)
	assert.Equal(t, "all", cfg.Acks)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, 5*time.Millisecond, cfg.Linger)
	assert.Equal(t, 30*time.Second, cfg.DeliveryTimeout)
	assert.Equal(t, 10000, cfg.MaxBuffered)
}
