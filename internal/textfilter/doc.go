// Package textfilter implements the body-cleaning half of the compaction
// engine: text normalization for comparison, rule-driven line filtering
// (skip/stop/header patterns, quote markers, ignored multi-line blocks) and
// cross-message duplicate-line elimination with one message of lookback.
//
// Retained lines are always returned verbatim; normalization is used only
// for matching, never for output.
package textfilter
