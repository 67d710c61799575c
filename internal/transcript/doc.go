// Package transcript assembles the compacted outputs: a dense
// machine-oriented transcript (one line per message, extracted attachment
// text inlined), a verbose human-oriented transcript (one block per message)
// and a flattened CSV timeline.
//
// The assembler is the single driver of the pipeline and the only place that
// ordering is enforced: threads ascending by first-message date, messages in
// stored (chronological) order. Both the cross-message deduplicator and the
// attachment canonicalizer depend on that order.
package transcript
