//go:build snapshot

package snapshot

// Enabled reports whether Write persists snapshots.
const Enabled = true
