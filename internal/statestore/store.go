// Package statestore persists the last observed per-agent status between
// probe invocations so the agent probe can detect online/offline transitions.
package statestore

import (
	"context"
	"strings"
)

// SimpleStatus is the minimal persisted summary of one agent.
type SimpleStatus string

const (
	StatusOnline  SimpleStatus = "online"
	StatusOffline SimpleStatus = "offline"
)

// valid reports whether s is one of the two persisted status values.
func (s SimpleStatus) valid() bool {
	return s == StatusOnline || s == StatusOffline
}

// Store maps an instance key to the last known name→status mapping for that
// monitored server.
//
// Load fails soft: a missing or unreadable state yields an empty map, never
// an error. Save fully replaces the stored mapping; a failed Save is logged
// by the implementation and must not affect the probe verdict, so callers may
// ignore the returned error once it has been traced.
type Store interface {
	Load(ctx context.Context, instanceKey string) map[string]SimpleStatus
	Save(ctx context.Context, instanceKey string, state map[string]SimpleStatus) error
}

// InstanceKey derives the storage namespace for a monitored server from its
// address: the URL scheme is stripped and characters unsafe for file names
// are collapsed to underscores.
func InstanceKey(target string) string {
	addr := target
	if i := strings.Index(addr, "://"); i >= 0 {
		addr = addr[i+3:]
	}
	addr = strings.TrimRight(addr, "/")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, addr)
}
