// Package watch processes audio files dropped into a folder.
//
// Files are handled one at a time once they have gone a settle window
// without filesystem events, then moved to processed/ or failed/ so they are
// never picked up twice.
package watch
