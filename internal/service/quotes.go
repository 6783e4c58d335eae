package service

import (
	"math/rand"
	"sync"
)

// quotes is the fixed pool of motivational lines appended to daily
// countdown notifications.
var quotes = []string{
	"To achieve great things, two things are needed: a plan, and not quite enough time. — Leonard Bernstein",
	"The best way to predict the future is to invent it. — Alan Kay",
	"One step at a time. Every long journey begins with a small first step.",
	"In the middle of difficulty lies opportunity. — Albert Einstein",
	"Today's effort is the best gift to your future self.",
	"Only action has the power to shape reality.",
	"Done is better than perfect. — Mark Zuckerberg",
	"It is not the strongest of the species that survives, but the one most responsive to change. — Charles Darwin",
	"Discipline is choosing between what you want now and what you want most.",
	"Small daily improvements are the key to staggering long-term results.",
	"You don't have to be great to start, but you have to start to be great.",
	"A goal without a deadline is just a dream.",
}

// QuotePicker picks a uniformly random quote. The random source is injected
// so callers can seed it for deterministic output.
type QuotePicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuotePicker(src rand.Source) *QuotePicker {
	return &QuotePicker{rnd: rand.New(src)}
}

func (p *QuotePicker) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return quotes[p.rnd.Intn(len(quotes))]
}
