package kafka

import "time"

// ProducerConfig tunes the franz-go producer. Brokers is a comma-separated
// seed list, as in KAFKA_BROKERS.
type ProducerConfig struct {
	Brokers         string
	ClientID        string
	Acks            string // "0", "1" or "all"
	Retries         int
	Linger          time.Duration
	DeliveryTimeout time.Duration
	// MaxBuffered caps records waiting for delivery. Async produces beyond
	// it are dropped rather than waiting for space.
	MaxBuffered int
}

// DefaultProducerConfig waits for all in-sync replicas and gives up on a
// record after 30s.
func DefaultProducerConfig(brokers string) ProducerConfig {
	return ProducerConfig{
		Brokers:         brokers,
		ClientID:        "statuslist",
		Acks:            "all",
		Retries:         3,
		Linger:          5 * time.Millisecond,
		DeliveryTimeout: 30 * time.Second,
		MaxBuffered:     10000,
	}
}
