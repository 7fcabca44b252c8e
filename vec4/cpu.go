// cpu.go — advisory CPU feature probes.
//
// The kernel itself is portable; these probes exist so callers (and the
// binding surface) can report which wide paths the host would run.

package vec4

import "golang.org/x/sys/cpu"

// HasAVX2 reports whether the host CPU advertises AVX2.
func HasAVX2() bool { return cpu.X86.HasAVX2 }

// HasAVX512 reports whether the host CPU advertises AVX-512F.
func HasAVX512() bool { return cpu.X86.HasAVX512F }
