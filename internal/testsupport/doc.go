// Package testsupport holds fixtures shared by package tests: a config
// builder rooted in t.TempDir, file writers, a history store opener and a
// progress indicator that records what it was asked to render.
package testsupport
