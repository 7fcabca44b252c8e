// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — cold-path error reporting (zero-alloc)
//
// Purpose:
//   - Reports infrequent failure and lifecycle events without heap pressure.
//   - Used only on cold paths: startup, fixture errors, the periodic
//     best-opportunity report, shutdown stats.
//
// ⚠️ Never invoke in hot loops — the core itself never logs.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "main/utils"

// DropError writes "prefix: error" to stderr piece by piece — no
// concatenation, no fmt, no interfaces beyond the error itself.
//
//go:nosplit
func DropError(prefix string, err error) {
	utils.PrintWarning(prefix)
	if err != nil {
		utils.PrintWarning(": ")
		utils.PrintWarning(err.Error())
	}
	utils.PrintWarning("\n")
}

// DropMessage writes "prefix: message" to stderr piece by piece for
// cold-path diagnostics: phase transitions, load summaries, shutdown
// counters.
//
//go:nosplit
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix)
	utils.PrintWarning(": ")
	utils.PrintWarning(message)
	utils.PrintWarning("\n")
}
