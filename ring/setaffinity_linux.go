//go:build linux

// setaffinity_linux.go
//
// Linux-only binding for sched_setaffinity(2) that pins this OS thread to a
// single logical CPU.  The mask is one stack word, so the call stays
// allocation-free; CPUs ≥ 64 are ignored.  Errors are deliberately
// swallowed — in cgroup-restricted environments the call may return
// EPERM/EINVAL and the fallback is simply "no pin".

package ring

import (
	"syscall"
	"unsafe"
)

// setAffinity pins the current thread to cpu (0-based).
func setAffinity(cpu int) {
	if cpu < 0 || cpu >= 64 {
		return
	}
	mask := [1]uintptr{1 << uint(cpu)}
	_, _, _ = syscall.RawSyscall(
		syscall.SYS_SCHED_SETAFFINITY,
		0, // pid 0 → current thread
		uintptr(unsafe.Sizeof(mask[0])),
		uintptr(unsafe.Pointer(&mask)),
	)
}
