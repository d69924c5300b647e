package render

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// DefaultProfilerHistory is the number of frames a Profiler remembers.
const DefaultProfilerHistory = 120

// FrameStats is what the renderer records for one Render call.
type FrameStats struct {
	DrawCalls  int
	RenderList int
	CPU        time.Duration
}

// Profiler collects CPU timings for named scopes, counters, and a rolling
// history of per-frame draw statistics. The renderer records the scopes
// "prep", "list" and "draw" and ends one frame per Render.
type Profiler struct {
	scopes map[string]time.Duration
	starts map[string]time.Time
	counts map[string]int
	order  []string

	frameStart time.Time
	frames     []FrameStats
	next       int
	full       bool
}

func NewProfiler() *Profiler {
	return NewProfilerWithHistory(DefaultProfilerHistory)
}

func NewProfilerWithHistory(frames int) *Profiler {
	if frames <= 0 {
		frames = 1
	}
	return &Profiler{
		scopes: make(map[string]time.Duration),
		starts: make(map[string]time.Time),
		counts: make(map[string]int),
		frames: make([]FrameStats, frames),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = time.Now()
	if !slices.Contains(p.order, name) {
		p.order = append(p.order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.starts[name]; ok {
		p.scopes[name] = time.Since(start)
	}
}

// Scope returns the last recorded duration of name.
func (p *Profiler) Scope(name string) time.Duration { return p.scopes[name] }

// Order lists scope names in the order they were first begun.
func (p *Profiler) Order() []string { return slices.Clone(p.order) }

func (p *Profiler) SetCount(name string, count int) { p.counts[name] = count }

func (p *Profiler) Count(name string) int { return p.counts[name] }

func (p *Profiler) BeginFrame() { p.frameStart = time.Now() }

// EndFrame appends a frame to the history, overwriting the oldest one once
// the history is full.
func (p *Profiler) EndFrame(drawCalls, renderList int) {
	var cpu time.Duration
	if !p.frameStart.IsZero() {
		cpu = time.Since(p.frameStart)
	}
	p.frames[p.next] = FrameStats{DrawCalls: drawCalls, RenderList: renderList, CPU: cpu}
	p.next = (p.next + 1) % len(p.frames)
	if p.next == 0 {
		p.full = true
	}
}

// Frames returns the recorded history, oldest first.
func (p *Profiler) Frames() []FrameStats {
	if !p.full {
		return slices.Clone(p.frames[:p.next])
	}
	return append(slices.Clone(p.frames[p.next:]), p.frames[:p.next]...)
}

// DrawCallRange returns the average and peak draw calls over the history.
func (p *Profiler) DrawCallRange() (avg float64, peak int) {
	frames := p.Frames()
	if len(frames) == 0 {
		return 0, 0
	}
	total := 0
	for _, f := range frames {
		total += f.DrawCalls
		peak = max(peak, f.DrawCalls)
	}
	return float64(total) / float64(len(frames)), peak
}

// Reset zeroes the scope timings. Counters and frame history are kept.
func (p *Profiler) Reset() {
	for k := range p.scopes {
		p.scopes[k] = 0
	}
}

func (p *Profiler) String() string {
	var sb strings.Builder

	sb.WriteString("Timings (CPU):\n")
	for _, name := range p.order {
		ms := float64(p.scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-15s: %.2f ms\n", name, ms)
	}

	sb.WriteString("\nStats:\n")
	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-15s: %d\n", k, p.counts[k])
	}

	if n := len(p.Frames()); n > 0 {
		avg, peak := p.DrawCallRange()
		fmt.Fprintf(&sb, "\nLast %d frames: %.1f draw calls avg, %d peak\n", n, avg, peak)
	}
	return sb.String()
}
