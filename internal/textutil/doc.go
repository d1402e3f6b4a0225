// Package textutil turns user-supplied names into safe file stems and lock
// tokens.
package textutil
