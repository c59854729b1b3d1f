package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/bamsammich/ferry/internal/stats"
)

const (
	graphWidth       = 20
	progressBarWidth = 20
	defaultPathWidth = 60
	minPathWidth     = 20
	feedColumns      = 30 // icon, size and speed around the path
	footerLines      = 2
	redrawInterval   = 100 * time.Millisecond
	minRedrawGap     = 50 * time.Millisecond
)

var graphBlocks = []rune("▁▂▃▄▅▆▇█")

// livePresenter prints a feed of finished items above a two line footer
// that is redrawn in place: throughput history and overall progress.
type livePresenter struct {
	w     io.Writer
	stats stats.ReadTicker
	root  string
	paint painter
	// pathWidth caps displayed paths in runes; zero means defaultPathWidth.
	pathWidth int

	footerDrawn bool
	lastDraw    time.Time
}

func (p *livePresenter) Run(events <-chan Event) error {
	// First sample comes early so the footer has a speed quickly.
	sample := time.NewTicker(250 * time.Millisecond)
	defer sample.Stop()
	seeded := false

	redraw := time.NewTicker(redrawInterval)
	defer redraw.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearFooter()
				return nil
			}
			p.handleEvent(ev)
			if time.Since(p.lastDraw) >= minRedrawGap {
				p.drawFooter()
			}
		case <-redraw.C:
			p.drawFooter()
		case <-sample.C:
			p.stats.Tick()
			if !seeded {
				seeded = true
				sample.Reset(time.Second)
			}
		}
	}
}

func (p *livePresenter) handleEvent(ev Event) {
	var line string
	switch ev.Type {
	case FileCopied:
		line = fmt.Sprintf("%s  %s  %s",
			p.paint.paint(styleIconDone, "✓"),
			p.styledPath(ev.Dest),
			p.paint.paint(styleFileSize, fmt.Sprintf("%10s", FormatBytes(ev.Size))))
		if speed := p.stats.RollingSpeed(5); speed > 0 {
			line += "  " + p.paint.paint(styleFileSpeed, FormatRate(speed))
		}
	case FileMoved:
		line = fmt.Sprintf("%s  %s", p.paint.paint(styleIconDone, "→"), p.styledPath(ev.Dest))
	case ItemDeleted, DirRemoved:
		line = fmt.Sprintf("%s  %s", p.paint.paint(styleIconFailed, "×"), p.styledPath(ev.Path))
	case ConflictRenamed:
		line = fmt.Sprintf("%s  %s  %s",
			p.paint.paint(styleIconRenamed, "≠"),
			p.styledPath(ev.Dest),
			p.paint.paint(styleFileDir, "(renamed)"))
	case ItemFailed:
		msg := "error"
		if ev.Error != nil {
			msg = ev.Error.Error()
		}
		line = fmt.Sprintf("%s  %s  %s",
			p.paint.paint(styleIconFailed, "✗"),
			p.styledPath(ev.Path),
			p.paint.paint(styleError, msg))
	case VerifyFailed:
		line = fmt.Sprintf("%s  %s  %s",
			p.paint.paint(styleIconFailed, "✗"),
			p.styledPath(ev.Dest),
			p.paint.paint(styleError, "CHECKSUM MISMATCH"))
	default:
		return
	}
	p.clearFooter()
	fmt.Fprintln(p.w, line)
	p.drawFooter()
}

func (p *livePresenter) drawFooter() {
	snap := p.stats.Snapshot()
	p.clearFooter()

	var pct float64
	if snap.BytesTotal > 0 {
		pct = min(float64(snap.BytesCopied)/float64(snap.BytesTotal), 1)
	}

	fmt.Fprintf(p.w, "       %s   %s   %s / %s\n",
		p.paint.paint(styleGraph, throughputGraph(p.stats.History(graphWidth), graphWidth)),
		FormatRate(p.stats.RollingSpeed(10)),
		FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal))

	filled := int(pct * progressBarWidth)
	bar := ProgressBar(pct, progressBarWidth)
	barRunes := []rune(bar)
	fmt.Fprintf(p.w, " %3.0f%%  %s%s   %s / %s files   eta %s\n",
		pct*100,
		p.paint.paint(styleProgressFilled, string(barRunes[:filled])),
		p.paint.paint(styleProgressEmpty, string(barRunes[filled:])),
		FormatCount(snap.FilesCopied+snap.FilesMoved), FormatCount(snap.FilesTotal),
		FormatETA(p.stats.ETA()))

	p.footerDrawn = true
	p.lastDraw = time.Now()
}

func (p *livePresenter) clearFooter() {
	if !p.footerDrawn {
		return
	}
	fmt.Fprintf(p.w, "\033[%dA\033[J", footerLines)
	p.footerDrawn = false
}

func (p *livePresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot())
}

// styledPath dims the directory part so the file name stands out.
func (p *livePresenter) styledPath(path string) string {
	width := p.pathWidth
	if width <= 0 {
		width = defaultPathWidth
	}
	path = truncPath(StripRoot(p.root, path), width)
	dir, base := filepath.Split(path)
	if dir == "" {
		return p.paint.paint(styleFilePath, base)
	}
	return p.paint.paint(styleFileDir, dir) + p.paint.paint(styleFilePath, base)
}

// feedPathWidth fits feed lines to a terminal cols wide.
func feedPathWidth(cols int) int {
	if cols <= 0 {
		return defaultPathWidth
	}
	return max(cols-feedColumns, minPathWidth)
}

// throughputGraph renders samples as block characters, exactly width runes
// wide, scaled to the largest sample and left-padded with the lowest block.
func throughputGraph(samples []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	peak := 0.0
	for _, v := range samples {
		peak = max(peak, v)
	}

	out := make([]rune, width)
	pad := width - len(samples)
	for i := range out {
		out[i] = graphBlocks[0]
		if i < pad || peak <= 0 {
			continue
		}
		if v := samples[i-pad]; v > 0 {
			out[i] = graphBlocks[int(v/peak*float64(len(graphBlocks)-1))]
		}
	}
	return string(out)
}
