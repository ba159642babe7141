// Package humanize formats byte counts the way the original tool this
// spec was distilled from does: B/KB/MB/GB with two decimals.
package humanize

import "fmt"

// Bytes renders size using binary-ish decimal steps of 1024, matching
// SPEC_FULL.md §12 item 1 (recovered from original_source's
// formatFileSize).
func Bytes(size int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	value := float64(size)
	unit := 0

	for value >= 1024.0 && unit < len(units)-1 {
		value /= 1024.0
		unit++
	}

	return fmt.Sprintf("%.2f %s", value, units[unit])
}
