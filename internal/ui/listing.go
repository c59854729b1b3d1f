package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/ferry/internal/storage"
	"github.com/bamsammich/ferry/internal/vfs"
)

const (
	listTimeLayout = "2006-01-02 15:04"
	usageBarWidth  = 20
	usageHigh      = 0.9
)

// Listing renders directory entries and storage roots for the CLI.
type Listing struct {
	w     io.Writer
	paint painter
}

// NewListing returns a Listing writing to w, styled when color is set.
func NewListing(w io.Writer, color bool) *Listing {
	return &Listing{w: w, paint: painter(color)}
}

// Entries writes one entry per line. The long form adds mode, size and
// modification time before the name.
func (l *Listing) Entries(entries []vfs.Entry, long bool) {
	for _, e := range entries {
		name := l.entryName(e)
		if !long {
			fmt.Fprintln(l.w, name)
			continue
		}
		size := FormatBytes(e.Size)
		if e.IsDir {
			size = "-"
		}
		fmt.Fprintf(l.w, "%s  %10s  %s  %s\n",
			e.Mode.String(), size, e.ModTime.Local().Format(listTimeLayout), name)
	}
}

// Entry writes a detailed multi-line description of a single entry.
func (l *Listing) Entry(e vfs.Entry) {
	kind := "file"
	switch {
	case e.IsDir:
		kind = "directory"
	case e.IsSymlink():
		kind = "symlink"
	}
	fmt.Fprintf(l.w, "%s %s\n", l.paint.paint(styleHeader, "path:"), e.Path)
	fmt.Fprintf(l.w, "type:     %s\n", kind)
	fmt.Fprintf(l.w, "size:     %s (%d bytes)\n", FormatBytes(e.Size), e.Size)
	fmt.Fprintf(l.w, "mode:     %s\n", e.Mode)
	fmt.Fprintf(l.w, "modified: %s\n", e.ModTime.Format(time.RFC3339))
	if !e.ChangeTime.IsZero() {
		fmt.Fprintf(l.w, "changed:  %s\n", e.ChangeTime.Format(time.RFC3339))
	}
	if e.LinkTarget != "" {
		fmt.Fprintf(l.w, "target:   %s\n", e.LinkTarget)
	}
}

// Roots writes one line per storage root with its free space and a usage
// bar. The primary root is marked with an asterisk.
func (l *Listing) Roots(roots []storage.Root) {
	for _, r := range roots {
		mark := " "
		if r.IsPrimary {
			mark = "*"
		}
		used := r.UsedFraction()
		style := styleProgressFilled
		if used >= usageHigh {
			style = styleUsageHigh
		}
		filled := int(used * usageBarWidth)
		bar := []rune(ProgressBar(used, usageBarWidth))
		fmt.Fprintf(l.w, "%s %-12s %-30s %10s free of %-10s %s%s %3.0f%%\n",
			mark,
			r.DisplayName,
			r.Path,
			FormatBytes(r.FreeBytes),
			FormatBytes(r.TotalBytes),
			l.paint.paint(style, string(bar[:filled])),
			l.paint.paint(styleProgressEmpty, string(bar[filled:])),
			used*100,
		)
	}
}

func (l *Listing) entryName(e vfs.Entry) string {
	switch {
	case e.IsDir:
		return l.paint.paint(styleDirectory, e.Name+"/")
	case e.IsSymlink():
		return l.paint.paint(styleSymlink, e.Name) + " -> " + e.LinkTarget
	case e.Hidden():
		return l.paint.paint(styleHidden, e.Name)
	default:
		return e.Name
	}
}
