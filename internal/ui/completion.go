package ui

import (
	"fmt"
	"strings"

	"github.com/bamsammich/ferry/internal/stats"
)

// CompletionSummary builds a final summary line from a snapshot, listing
// only the counters an operation actually touched.
// Format: done ✓  copied 1,204  size 2.1 GiB  renamed 3  time 3m 17s  errors 0
func CompletionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.Failures > 0 || snap.FilesVerifyFailed > 0 {
		icon = "✗"
	}

	parts := []string{"done " + icon}
	add := func(label string, n int64) {
		if n > 0 {
			parts = append(parts, label+" "+FormatCount(n))
		}
	}
	add("copied", snap.FilesCopied)
	add("moved", snap.FilesMoved)
	add("dirs", snap.DirsCreated)
	add("deleted", snap.ItemsDeleted+snap.DirsRemoved)
	add("renamed", snap.ConflictsRenamed)
	add("verified", snap.FilesVerified)

	if snap.BytesCopied > 0 {
		parts = append(parts, "size "+FormatBytes(snap.BytesCopied))
		if secs := snap.Elapsed.Seconds(); secs > 0 {
			parts = append(parts, "avg "+FormatRate(float64(snap.BytesCopied)/secs))
		}
	}
	parts = append(parts,
		"time "+FormatDuration(snap.Elapsed),
		fmt.Sprintf("errors %d", snap.Failures+snap.FilesVerifyFailed),
	)
	return strings.Join(parts, "  ")
}
