package greeting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

const (
	systemPrompt = "You write warm and sincere birthday greetings for colleagues. Be friendly and positive."
	onePrompt    = "Write a warm birthday greeting for a colleague named %s. At most 2-3 sentences."
	manyPrompt   = "Write one warm birthday greeting for colleagues named %s, addressing all of them together and mentioning every name. At most 3-4 sentences."

	oneTemplate  = "🎉 %s, happy birthday from all of us! Wishing you happiness, health and success! 🎂"
	manyTemplate = "🎉 %s, happy birthday from all of us! Wishing you all happiness, health and success! 🎂"

	weekendFrame = "On %s it was %s's birthday!"
	holidayFrame = "On the holiday (%s) it was %s's birthday!"
)

// Composer turns due names into greeting text. gen may be nil.
type Composer struct {
	gen Generator
	log *zap.Logger
}

// NewComposer creates a Composer. Without a generator every greeting is templated.
func NewComposer(gen Generator, log *zap.Logger) *Composer {
	return &Composer{gen: gen, log: log.With(zap.String("component", "greeting"))}
}

// FirstName returns the first whitespace-delimited token of name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return strings.TrimSpace(name)
	}
	return fields[0]
}

// ComposeOne greets a single person. The result always mentions the first name.
func (c *Composer) ComposeOne(ctx context.Context, name string) string {
	first := FirstName(name)
	fallback := fmt.Sprintf(oneTemplate, first)
	text := c.generate(ctx, Prompt{System: systemPrompt, User: fmt.Sprintf(onePrompt, first)}, fallback)
	return ensureNames(text, []string{first})
}

// ComposeMany greets several people in one message. Every first name is mentioned.
func (c *Composer) ComposeMany(ctx context.Context, names []string) string {
	if len(names) == 1 {
		return c.ComposeOne(ctx, names[0])
	}
	firsts := make([]string, 0, len(names))
	for _, n := range names {
		firsts = append(firsts, FirstName(n))
	}
	list := joinNames(firsts)
	fallback := fmt.Sprintf(manyTemplate, list)
	text := c.generate(ctx, Prompt{System: systemPrompt, User: fmt.Sprintf(manyPrompt, list)}, fallback)
	return ensureNames(text, firsts)
}

// Block renders all entries of one category as a single text block.
func (c *Composer) Block(ctx context.Context, cat domain.Category, entries []domain.DueEntry) string {
	if len(entries) == 0 {
		return ""
	}
	names := make([]string, 0, len(entries))
	var lines []string
	for _, e := range entries {
		names = append(names, e.Name)
		switch cat {
		case domain.CategoryWeekend:
			lines = append(lines, fmt.Sprintf(weekendFrame, e.Weekday, e.Name))
		case domain.CategoryHoliday:
			lines = append(lines, fmt.Sprintf(holidayFrame, e.Date, e.Name))
		case domain.CategoryToday:
		}
	}
	lines = append(lines, c.ComposeMany(ctx, names))
	return strings.Join(lines, "\n")
}

// generate asks the backend and maps any failure to fallback.
func (c *Composer) generate(ctx context.Context, p Prompt, fallback string) string {
	if c.gen == nil {
		return fallback
	}
	text, err := c.gen.Generate(ctx, p)
	if err != nil {
		c.log.Warn("greeting generation failed, using template", zap.Error(err))
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}

// ensureNames prepends every name the text does not already contain.
func ensureNames(text string, names []string) string {
	fold := cases.Fold()
	folded := fold.String(text)
	var missing []string
	for _, n := range names {
		if !strings.Contains(folded, fold.String(n)) {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return text
	}
	return strings.Join(missing, ", ") + ", " + text
}

// joinNames renders "A", "A and B", "A, B and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
