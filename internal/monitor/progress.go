package monitor

import (
	"fmt"
	"io"
	"time"

	"github.com/san-kum/polysim/internal/scene"
	"github.com/san-kum/polysim/internal/sim"
)

// Progress is a sim.Observer that rewrites a single status line at most
// frameRate times per second.
type Progress struct {
	w         io.Writer
	scenario  string
	duration  float64
	frameRate int
	lastFrame time.Time
	now       func() time.Time
}

func NewProgress(w io.Writer, scenario string, duration float64, frameRate int) *Progress {
	if frameRate <= 0 {
		frameRate = 10
	}
	return &Progress{
		w:         w,
		scenario:  scenario,
		duration:  duration,
		frameRate: frameRate,
		now:       time.Now,
	}
}

func (p *Progress) OnTick(s *scene.Scene, smp sim.Sample) {
	now := p.now()
	if now.Sub(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
		return
	}
	p.lastFrame = now
	p.render(s, smp)
}

func (p *Progress) render(s *scene.Scene, smp sim.Sample) {
	fmt.Fprintf(p.w, "\r  %s  %s  %s %d  %s %d  %s %.3f\033[K",
		cyan.Render(p.scenario),
		dim.Render(fmt.Sprintf("t=%.2fs/%.0fs", smp.Time, p.duration)),
		dim.Render("bodies"), smp.Bodies,
		dim.Render("removed"), s.Removed(),
		dim.Render("ke"), smp.Kinetic,
	)
}

// Done ends the status line.
func (p *Progress) Done() {
	fmt.Fprintln(p.w)
}
