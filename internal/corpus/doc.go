// Package corpus defines the thread/message/attachment data model and loads
// the corpus JSON handed over by the upstream extraction stage.
//
// The upstream stage has already fetched raw messages, converted bodies to
// plaintext and written attachment files (plus optional extracted-text
// sidecars) to disk. This package only decodes that handover file; it never
// talks to a mail provider.
package corpus
