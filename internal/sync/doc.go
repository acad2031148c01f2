// Package sync implements the protocol core of the offline-synchronization
// layer: sync-window parsing, the optimistic-concurrency conditional check,
// the monotonic updated-timestamp rule, per-parent quota policy, the
// partial-archive heuristics, and the tombstone expiry reaper.
//
// The package is deliberately storage-agnostic. It defines the policy and
// the per-request values that the store and service layers thread through
// an explicit pipeline of stages (resolve parent, apply window, check
// conditional, check quota, evict); it never holds ambient per-request
// state itself.
package sync
