package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "laklight",
	Pass: "laklight",
	Name: "scheduling",
}

var defaultKafka = Kafka{
	GroupID: "scheduling-worker",
	Topic:   "supplier-applications",
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       20,
	Burst:      40,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultIdentity = Identity{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultScheduling = Scheduling{
	OperationTimeout: 3 * time.Second,
	ConflictRetries:  3,
}

// DefaultPort returns the default port.
func DefaultPort() int { return defaultPort }

// DefaultDB returns the default database settings.
func DefaultDB() DB { return defaultDB }

// DefaultKafka returns the default Kafka settings.
func DefaultKafka() Kafka { return defaultKafka }

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit { return defaultRateLimit }

// DefaultIdentity returns the default identity gateway settings.
func DefaultIdentity() Identity { return defaultIdentity }

// DefaultScheduling returns the default scheduling settings.
func DefaultScheduling() Scheduling { return defaultScheduling }

// DefaultPprof returns the default pprof settings.
func DefaultPprof() Pprof { return Pprof{} }
