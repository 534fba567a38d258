// Package publish drives one capture, encode and publish cycle per host
// flight loop callback.
//
// Every failure inside a cycle ends at the Loop boundary: it is logged,
// counted and the host gets its next interval back. Nothing propagates
// into the host, panics included.
//
// OnTick is not reentrant. The host calls it from its own thread, one
// callback at a time; an overlapping call is skipped rather than queued.
package publish
