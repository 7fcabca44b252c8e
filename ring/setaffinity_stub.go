//go:build !linux

// setaffinity_stub.go
//
// No-op pin for platforms without sched_setaffinity.

package ring

func setAffinity(int) {}
