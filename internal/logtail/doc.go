// Package logtail reads the end of tunedeck's log file and reports when it
// changes.
//
// Read keeps a ring buffer of the last N lines so memory stays bounded
// regardless of file size. Watch uses fsnotify on the log's directory and
// sends coalesced change signals that the Logs view turns into a reload.
package logtail
