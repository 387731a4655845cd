// Package cache stores snapshots of the last successfully fetched holdings payload.
//
// Snapshots are JSON files in ~/.holdview/cache/, one per source URL, named by the
// SHA256 of the URL. Each carries its fetch time and an expiry derived from the
// configured TTL. The fetch client writes a snapshot after every successful network
// fetch and reads it back when the network fails or --offline is set.
package cache
