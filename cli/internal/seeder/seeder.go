// Package seeder generates synthetic competition data: a participant
// roster and a spread of workout events published to in-process relays.
// It exists for demos and load testing against a local stack.
package seeder

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/bohemia111/RUNSTR-sub012/internal/models"
	"github.com/bohemia111/RUNSTR-sub012/internal/relay"
)

// Config controls how much data the seeder generates.
type Config struct {
	Participants         int
	EventsPerParticipant int

	// ImplausibleRate is the fraction of events generated with cheating
	// numbers (teleport paces, absurd distances) so the fraud filter has
	// something to flag.
	ImplausibleRate float64

	// TimeSpread is how far back event timestamps reach. Events are spread
	// uniformly over this window so every collection window gets traffic.
	TimeSpread time.Duration

	// DuplicateRate is the fraction of events stored on more than one
	// relay, exercising cross-relay deduplication.
	DuplicateRate float64

	Seed int64
}

// DefaultConfig returns a small but representative data set.
func DefaultConfig() Config {
	return Config{
		Participants:         25,
		EventsPerParticipant: 40,
		ImplausibleRate:      0.05,
		TimeSpread:           400 * 24 * time.Hour,
		DuplicateRate:        0.3,
		Seed:                 time.Now().UnixNano(),
	}
}

// Generator produces fake participants and workout events.
type Generator struct {
	cfg   Config
	rng   *rand.Rand
	faker *gofakeit.Faker
	now   time.Time
}

// NewGenerator creates a deterministic generator for the given config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		faker: gofakeit.New(cfg.Seed),
		now:   time.Now().UTC(),
	}
}

var charityPool = []string{
	"als-foundation",
	"wounded-warrior",
	"st-jude",
	"charity-water",
	"team-rubicon",
}

// Participants generates the competition roster.
func (g *Generator) Participants() []models.Participant {
	roster := make([]models.Participant, 0, g.cfg.Participants)
	for i := 0; i < g.cfg.Participants; i++ {
		seed := fmt.Sprintf("seed-participant-%d-%d", g.cfg.Seed, i)
		sum := sha256.Sum256([]byte(seed))
		roster = append(roster, models.Participant{
			Pubkey:      hex.EncodeToString(sum[:]),
			DisplayName: g.faker.Username(),
			PictureURL:  fmt.Sprintf("https://robohash.org/%s.png", g.faker.Username()),
			CharityID:   charityPool[g.rng.Intn(len(charityPool))],
		})
	}
	return roster
}

// Events generates workout events for one participant.
func (g *Generator) Events(p models.Participant) []models.RawEvent {
	events := make([]models.RawEvent, 0, g.cfg.EventsPerParticipant)
	for i := 0; i < g.cfg.EventsPerParticipant; i++ {
		events = append(events, g.event(p))
	}
	return events
}

func (g *Generator) event(p models.Participant) models.RawEvent {
	activities := models.ScoringActivityTypes()
	activity := activities[g.rng.Intn(len(activities))]

	distanceKm, durationSec := g.workoutNumbers(activity)

	age := time.Duration(g.rng.Int63n(int64(g.cfg.TimeSpread)))
	createdAt := g.now.Add(-age).Unix()

	tags := [][]string{
		{models.TagExercise, string(activity)},
		{models.TagDistance, strconv.FormatFloat(distanceKm, 'f', 2, 64), "km"},
		{models.TagDuration, formatDuration(durationSec)},
	}
	// Roughly half the events carry an explicit charity tag; the rest
	// fall back to the sitewide default at normalization time.
	if g.rng.Float64() < 0.5 {
		tags = append(tags, []string{models.TagCharity, p.CharityID})
	}

	ev := models.RawEvent{
		Pubkey:    p.Pubkey,
		CreatedAt: createdAt,
		Kind:      models.KindWorkout,
		Tags:      tags,
		Content:   g.faker.Sentence(6),
	}
	ev.ID = EventID(&ev)
	ev.Sig = fakeSig(ev.ID)
	return ev
}

// workoutNumbers picks a distance and duration, occasionally implausible.
func (g *Generator) workoutNumbers(activity models.ActivityType) (float64, int) {
	if g.rng.Float64() < g.cfg.ImplausibleRate {
		// Teleport pace: long distance in seconds.
		return 50 + g.rng.Float64()*100, 10 + g.rng.Intn(50)
	}

	switch activity {
	case models.ActivityRunning:
		dist := 3 + g.rng.Float64()*18
		pace := 240 + g.rng.Float64()*300 // 4–9 min/km
		return dist, int(dist * pace)
	case models.ActivityWalking:
		dist := 1 + g.rng.Float64()*9
		pace := 600 + g.rng.Float64()*400
		return dist, int(dist * pace)
	case models.ActivityCycling:
		dist := 10 + g.rng.Float64()*70
		pace := 90 + g.rng.Float64()*90
		return dist, int(dist * pace)
	default:
		return 5, 1800
	}
}

// EventID derives the content-addressed id: the hash of the canonical
// serialization [0, pubkey, created_at, kind, tags, content]. Identical
// logical events always hash to the same id regardless of which relay
// stores them.
func EventID(ev *models.RawEvent) string {
	canonical, _ := json.Marshal([]interface{}{
		0,
		ev.Pubkey,
		ev.CreatedAt,
		ev.Kind,
		ev.Tags,
		ev.Content,
	})
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

func fakeSig(id string) string {
	sum := sha256.Sum256([]byte("sig:" + id))
	return hex.EncodeToString(sum[:]) + hex.EncodeToString(sum[:])
}

func formatDuration(totalSec int) string {
	h := totalSec / 3600
	m := (totalSec % 3600) / 60
	s := totalSec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Distribute spreads events across relay servers. Every event lands on at
// least one relay; a configurable fraction is stored on several, so the
// collector sees cross-relay duplicates.
func (g *Generator) Distribute(events []models.RawEvent, servers []*relay.Server) {
	if len(servers) == 0 {
		return
	}
	for i := range events {
		first := g.rng.Intn(len(servers))
		servers[first].Add(events[i])

		if len(servers) > 1 && g.rng.Float64() < g.cfg.DuplicateRate {
			extra := g.rng.Intn(len(servers))
			if extra == first {
				extra = (extra + 1) % len(servers)
			}
			servers[extra].Add(events[i])
		}
	}
}
