//go:build !hfsmdebug

package hfsm

const debugChecks = false
