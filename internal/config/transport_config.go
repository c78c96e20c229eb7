package config

import "time"

type TransportConfig interface {
	GetRequestTimeout() time.Duration
	GetBreakerMaxFailures() uint32
	GetBreakerOpenTimeout() time.Duration
}

type Transport struct{}

var _ TransportConfig = Transport{}

// GetRequestTimeout bounds every backend call; a hung request is aborted after it.
func (Transport) GetRequestTimeout() time.Duration {
	return GetEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second)
}

func (Transport) GetBreakerMaxFailures() uint32 {
	return uint32(GetEnvAsInt("BREAKER_MAX_FAILURES", 5))
}

func (Transport) GetBreakerOpenTimeout() time.Duration {
	return GetEnvAsDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second)
}
