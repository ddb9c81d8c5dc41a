// Package demo provides a synthetic customer-journey corpus and the tool
// set the research agent uses against it. It backs the CLI and the server
// when no real data store is wired in.
package demo

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Journey categories.
const (
	CatPricingDispute = "JT_PRICING_DISPUTE"
	CatOnboarding     = "JT_ONBOARDING"
	CatCardIssue      = "JT_CARD_ISSUE"
	CatFraud          = "JT_FRAUD"
	CatComplaints     = "JT_COMPLAINTS"
	CatGeneralEnquiry = "JT_GENERAL_ENQUIRY"
)

// Journey is one customer interaction with the bank, from first contact to
// outcome.
type Journey struct {
	ID         string
	CustomerID string
	Category   string
	Channel    string
	Status     string
	Sentiment  string
	SLABreach  bool
	OpenedAt   time.Time
	Transcript string
}

var (
	categories = []string{
		CatPricingDispute, CatOnboarding, CatCardIssue,
		CatFraud, CatComplaints, CatGeneralEnquiry,
	}
	channels   = []string{"phone", "chat", "email", "twitter"}
	statuses   = []string{"resolved", "escalated", "abandoned"}
	sentiments = []string{"negative", "neutral", "positive"}
)

var transcriptTemplates = map[string][]string{
	CatPricingDispute: {
		"Customer disputes a %s fee charged on their account. Agent explained the fee schedule, customer remained unconvinced and asked for a refund.",
		"Customer noticed an unexpected charge after the pricing change. Agent applied a goodwill credit and walked through the new fee structure.",
	},
	CatOnboarding: {
		"New customer stuck at identity verification during account opening on the %s app. Agent reset the verification flow and the account was activated.",
		"Customer could not complete the onboarding questionnaire. Agent filled in the missing employment details over the phone.",
	},
	CatCardIssue: {
		"Customer reports their debit card was declined at a %s terminal despite sufficient balance. Agent reordered the card and removed a stale block.",
		"Card swallowed by an ATM while abroad. Agent blocked the card, arranged an emergency replacement and flagged the case for follow-up.",
	},
	CatFraud: {
		"Customer flagged three unrecognized %s transactions. Agent froze the card, raised a fraud case and initiated chargebacks.",
		"Suspected account takeover after a phishing text. Agent reset credentials, reviewed recent payees and escalated to the fraud team.",
	},
	CatComplaints: {
		"Customer complains about long wait times and conflicting answers about their %s application. Agent logged a formal complaint and promised a callback.",
		"Third contact about the same unresolved issue. Customer threatened to switch banks; case escalated to a senior handler.",
	},
	CatGeneralEnquiry: {
		"Customer asked how to set up a standing order for their %s payments. Agent walked through the mobile app steps.",
		"Question about interest rates on the fixed saver. Agent explained the current rates and the early withdrawal terms.",
	},
}

var templateFillers = []string{"monthly", "overdraft", "international", "contactless", "mortgage", "rent"}

// Corpus is an in-memory journey store. Construct with NewCorpus; the data
// is deterministic for a given seed so tests and demos are reproducible.
type Corpus struct {
	journeys []Journey
}

// NewCorpus generates size synthetic journeys spread over the 30 days
// before now.
func NewCorpus(seed int64, size int, now time.Time) *Corpus {
	rng := rand.New(rand.NewSource(seed))
	journeys := make([]Journey, 0, size)
	for i := 0; i < size; i++ {
		category := categories[rng.Intn(len(categories))]
		templates := transcriptTemplates[category]
		transcript := templates[rng.Intn(len(templates))]
		if strings.Contains(transcript, "%s") {
			transcript = fmt.Sprintf(transcript, templateFillers[rng.Intn(len(templateFillers))])
		}
		journeys = append(journeys, Journey{
			ID:         fmt.Sprintf("JRN-%05d", i+1),
			CustomerID: fmt.Sprintf("CUST-%04d", rng.Intn(size/3+1)+1),
			Category:   category,
			Channel:    channels[rng.Intn(len(channels))],
			Status:     statuses[rng.Intn(len(statuses))],
			Sentiment:  sentiments[rng.Intn(len(sentiments))],
			SLABreach:  rng.Intn(100) < 12,
			OpenedAt:   now.AddDate(0, 0, -rng.Intn(30)),
			Transcript: transcript,
		})
	}
	return &Corpus{journeys: journeys}
}

// Len returns the number of journeys.
func (c *Corpus) Len() int { return len(c.journeys) }

// All returns every journey. The slice is shared; callers must not mutate.
func (c *Corpus) All() []Journey { return c.journeys }

// Search returns journeys whose transcript, category, channel or customer
// ID contains the query, most recent first, capped at limit.
func (c *Corpus) Search(query string, limit int) []Journey {
	q := strings.ToLower(strings.TrimSpace(query))
	var matches []Journey
	for _, j := range c.journeys {
		if q == "" ||
			strings.Contains(strings.ToLower(j.Transcript), q) ||
			strings.Contains(strings.ToLower(j.Category), q) ||
			strings.Contains(j.Channel, q) ||
			strings.Contains(strings.ToLower(j.CustomerID), q) {
			matches = append(matches, j)
		}
	}
	sort.Slice(matches, func(a, b int) bool {
		return matches[a].OpenedAt.After(matches[b].OpenedAt)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// CountBy groups journeys by the given key function.
func (c *Corpus) CountBy(key func(Journey) string) map[string]int {
	counts := make(map[string]int)
	for _, j := range c.journeys {
		counts[key(j)]++
	}
	return counts
}

// Since returns journeys opened on or after cutoff.
func (c *Corpus) Since(cutoff time.Time) []Journey {
	var out []Journey
	for _, j := range c.journeys {
		if !j.OpenedAt.Before(cutoff) {
			out = append(out, j)
		}
	}
	return out
}
