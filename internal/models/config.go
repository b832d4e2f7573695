package models

import (
	"fmt"
	"strings"
)

// Config holds all configuration options for multilookup
type Config struct {
	QueueSize     int
	Resolvers     int
	MaxNameLength int
	Network       string
	Nameservers   []string
	Normalize     bool
	Verbose       bool
	Quiet         bool
	NoColor       bool
	NoProgress    bool
	MetricsAddr   string
}

const (
	DefaultQueueSize     = 50
	DefaultResolvers     = 10
	DefaultMaxNameLength = 1024
	MaxResolvers         = 1000
)

// Validate checks if the configuration is valid and returns an error if not
func (c *Config) Validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("queue size must be at least 1, got %d", c.QueueSize)
	}
	if c.Resolvers < 1 {
		return fmt.Errorf("resolver count must be at least 1, got %d", c.Resolvers)
	}
	if c.Resolvers > MaxResolvers {
		return fmt.Errorf("resolver count cannot exceed %d, got %d", MaxResolvers, c.Resolvers)
	}
	if c.MaxNameLength < 1 {
		return fmt.Errorf("max name length must be at least 1, got %d", c.MaxNameLength)
	}
	switch c.Network {
	case "ip", "ip4", "ip6":
	default:
		return fmt.Errorf("network must be one of ip, ip4, ip6, got %q", c.Network)
	}
	for i, ns := range c.Nameservers {
		if strings.TrimSpace(ns) == "" {
			return fmt.Errorf("nameserver %d is empty", i)
		}
	}
	return nil
}

// Clone creates a deep copy of the config
func (c *Config) Clone() *Config {
	clone := *c
	if c.Nameservers != nil {
		clone.Nameservers = make([]string, len(c.Nameservers))
		copy(clone.Nameservers, c.Nameservers)
	}
	return &clone
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		QueueSize:     DefaultQueueSize,
		Resolvers:     DefaultResolvers,
		MaxNameLength: DefaultMaxNameLength,
		Network:       "ip",
		Nameservers:   nil,
		Normalize:     false,
		Verbose:       false,
		Quiet:         false,
		NoColor:       false,
		NoProgress:    false,
		MetricsAddr:   "",
	}
}
