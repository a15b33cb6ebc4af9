package ai

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

var ErrEmptyText = errors.New("bullet point text is required")

var actionVerbs = []string{
	"Achieved", "Built", "Collaborated", "Communicated", "Completed",
	"Conceptualized", "Coordinated", "Created", "Defined", "Delivered",
	"Designed", "Developed", "Directed", "Enhanced", "Established",
	"Evaluated", "Executed", "Facilitated", "Generated", "Identified",
	"Implemented", "Improved", "Increased", "Initiated", "Innovated",
	"Integrated", "Launched", "Led", "Maintained", "Managed",
	"Maximized", "Minimized", "Negotiated", "Operated", "Organized",
	"Originated", "Overhauled", "Participated", "Performed", "Planned",
	"Processed", "Produced", "Programmed", "Projected", "Provided",
	"Reduced", "Recommended", "Represented", "Resolved", "Scheduled",
	"Selected", "Sold", "Solved", "Streamlined", "Supervised",
	"Supported", "Synthesized", "Tracked", "Trained", "Utilized",
	"Verified", "Won", "Yielded", "Spearheaded", "Drove", "Optimized",
	"Engineered",
}

// openingVerbs are the verbs prepended to a bullet that lacks one.
var openingVerbs = []string{
	"Spearheaded", "Drove", "Optimized", "Engineered", "Delivered",
	"Implemented", "Launched", "Managed", "Developed", "Enhanced",
}

var impactPhrases = []string{
	", resulting in measurable improvements",
	", leading to enhanced efficiency",
	", contributing to team success",
	", achieving significant results",
}

var impactMarkers = []string{"%", "increased", "reduced", "improved"}

// Intn is the randomness the heuristic needs. *rand.Rand satisfies it.
type Intn interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe for concurrent handlers.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Improver rewrites resume bullet points. With a client it asks the
// ai-service first and falls back to the local heuristic on any failure.
type Improver struct {
	client *Client
	rnd    Intn
}

// NewImprover builds an Improver. client may be nil. A nil rnd uses a
// time-seeded source.
func NewImprover(client *Client, rnd Intn) *Improver {
	if rnd == nil {
		rnd = &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
	return &Improver{client: client, rnd: rnd}
}

func (im *Improver) Improve(ctx context.Context, text, role string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if im.client != nil {
		out, err := im.client.ImproveBullet(ctx, text, role)
		if err == nil {
			return out, nil
		}
		log.Warn().Err(err).Msg("ai: remote improvement failed, using heuristic")
	}
	return ImproveHeuristic(text, im.rnd), nil
}

// ImproveHeuristic applies resume-writing rules without a model: capitalise,
// drop the trailing period, lead with an action verb and end with an impact.
func ImproveHeuristic(text string, rnd Intn) string {
	out := strings.TrimSpace(text)
	if r, size := utf8.DecodeRuneInString(out); size > 0 {
		out = string(unicode.ToUpper(r)) + out[size:]
	}
	out = strings.TrimSuffix(out, ".")

	if !startsWithActionVerb(out) {
		out = openingVerbs[rnd.Intn(len(openingVerbs))] + " " + out
	}
	if !hasImpact(out) {
		out += impactPhrases[rnd.Intn(len(impactPhrases))]
	}
	return out
}

func startsWithActionVerb(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	for _, v := range actionVerbs {
		if strings.EqualFold(v, fields[0]) {
			return true
		}
	}
	return false
}

func hasImpact(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range impactMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
