// Package logs reads the distill log file for the "distill logs" command.
//
// Last returns the trailing lines of the file, Follow streams lines appended
// after an offset until the context ends, and Filter narrows either stream to
// one run or a minimum level. Both log formats written by internal/logging
// (console and JSON) are understood.
package logs
