// Package runlock serializes runs that target the same output base name.
//
// Two concurrent invocations writing summarized_output.txt would race on the
// rename; the lock is an flock on state_dir/locks/<token>.lock and is held
// for the whole run.
package runlock
