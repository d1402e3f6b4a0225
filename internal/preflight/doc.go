// Package preflight provides readiness checks for the services and paths
// distill depends on.
//
// "distill check" runs them all and prints one line per check. Each check is
// independent: a failing AWS credential lookup does not stop the webhook or
// directory checks from reporting. Checks that need a network call take their
// client through Env so tests can substitute fakes.
package preflight
