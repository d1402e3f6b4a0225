// Package history records pipeline runs in SQLite.
//
// Each invocation of the pipeline inserts a running record at start and
// fills in the job, delivery and error fields when it ends. The CLI's
// history command reads it back. Schema changes are new files under
// migrations/, applied in lexical order on Open.
package history
