// Package sample builds synthetic histories for working on the status page
// without running real probes.
package sample

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/doeshing/ronde/internal/domain"
)

// Rates are the probabilities of each outcome, checked in order.
type Rates struct {
	Success        float64
	Timeout        float64
	CommandFailure float64
}

// DefaultRates mostly yields successes.
var DefaultRates = Rates{Success: 0.95, Timeout: 0.2, CommandFailure: 0.05}

var words = strings.Fields(`a accumsan adipiscing aenean aliquam amet ante aptent arcu at
auctor augue bibendum condimentum congue consequat convallis curabitur dapibus diam
dictumst dolor donec dui egestas eget eleifend elementum erat est eu facilisis feugiat
fusce habitant id in integer ipsum lacus laoreet lectus leo libero litora lorem magna
malesuada massa mauris molestie nam nec netus nibh nisi non nulla nunc ornare pharetra
suspendisse taciti tellus tempor tempus tincidunt tortor tristique ultrices ut vehicula
vel velit vestibulum vitae vivamus volutpat vulputate`)

// Timestamps returns the run times used by the generator: a sparse week
// followed by a dense last day, ending at end.
func Timestamps(end time.Time) []time.Time {
	end = end.UTC()
	var out []time.Time
	for d := 8; d >= 2; d-- {
		out = append(out, end.Add(-time.Duration(d)*24*time.Hour-17*time.Minute))
	}
	for h := 23; h >= 2; h-- {
		out = append(out, end.Add(-time.Duration(h)*time.Hour+time.Duration(h%7)*time.Minute))
	}
	for m := 59; m >= 0; m -= 2 {
		out = append(out, end.Add(-time.Duration(m)*time.Minute))
	}
	return out
}

// Generator produces random histories.
type Generator struct {
	rng   *rand.Rand
	rates Rates
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64, rates Rates) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), rates: rates}
}

// History builds probes named command_0 .. command_{n-1}, one entry per
// timestamp, then retags and rotates them.
func (g *Generator) History(n int, end time.Time) *domain.History {
	history := domain.NewHistory()
	stamps := Timestamps(end)
	for i := 0; i < n; i++ {
		probe := domain.ProbeHistory{Name: fmt.Sprintf("command_%d", i)}
		for _, at := range stamps {
			probe.Append(g.outcome(), g.sentence(3), at)
		}
		history.Probes = append(history.Probes, probe)
	}
	history.Retag()
	history.Rotate()
	return history
}

func (g *Generator) outcome() domain.Outcome {
	switch {
	case g.rng.Float64() < g.rates.Success:
		return domain.Success(0, g.paragraph(), "")
	case g.rng.Float64() < g.rates.Timeout:
		return domain.Timeout(uint16(1 + g.rng.IntN(60)))
	case g.rng.Float64() < g.rates.CommandFailure:
		return domain.CommandFailure(1+g.rng.IntN(255), g.paragraph(), g.paragraph())
	default:
		return domain.OtherFailure(g.sentence(10))
	}
}

func (g *Generator) sentence(n int) string {
	picked := make([]string, n)
	for i := range picked {
		picked[i] = words[g.rng.IntN(len(words))]
	}
	return strings.Join(picked, " ")
}

func (g *Generator) paragraph() string {
	sentences := make([]string, 5)
	for i := range sentences {
		sentences[i] = g.sentence(10)
	}
	return strings.Join(sentences, ". ")
}
