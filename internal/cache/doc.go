// Package cache stores fetched feed pages on disk with a TTL.
//
// Entries live as JSON files under ~/.userfeed/cache/ by default and are keyed
// by a SHA256 digest of the request that produced them, so re-running the CLI
// with the same seed and page size replays pages without touching the network.
package cache
