// Package attach canonicalizes attachments across the whole corpus: each
// distinct content (identified by a SHA-256 fingerprint of its bytes) is
// exported at most once under one canonical filename, every later occurrence
// references that copy, and distinct contents sharing a filename are
// disambiguated with a numeric suffix.
//
// The registries are deliberately global to a run and append-only; the
// component depends on strictly chronological traversal, which the
// transcript builder guarantees.
package attach
