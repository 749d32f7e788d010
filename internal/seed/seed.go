package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"stagedoor/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	// DryRun builds entities and assigns synthetic IDs without touching
	// the database.
	DryRun bool
	// SkipBcrypt stores seed passwords in plain text for faster runs.
	SkipBcrypt bool
	// MaxYears bounds how far back generated career entries start.
	MaxYears int
	// BatchSize controls batched inserts for career histories.
	BatchSize int
}

// Career entry kinds used when distributing a generated work history.
const (
	entryKindStage    = "stage"
	entryKindTour     = "tour"
	entryKindTeaching = "teaching"
	entryKindScreen   = "screen"
)

// Distribution describes how a generated work history splits across
// entry kinds. Values are fractions of the total; any remainder from
// rounding goes to stage engagements.
type Distribution struct {
	Stage    float64
	Tour     float64
	Teaching float64
	Screen   float64
}

var defaultDistribution = Distribution{Stage: 0.5, Tour: 0.3, Teaching: 0.1, Screen: 0.1}

// CategoryDistributions maps a dancer's profile flavor to a work history
// distribution.
var CategoryDistributions = map[string]Distribution{
	"classical":  {Stage: 0.7, Tour: 0.2, Teaching: 0.1, Screen: 0},
	"commercial": {Stage: 0.2, Tour: 0.3, Teaching: 0.1, Screen: 0.4},
	"educator":   {Stage: 0.3, Tour: 0.1, Teaching: 0.6, Screen: 0},
}

func computeCounts(total int, d Distribution) (stage, tour, teaching, screen int) {
	tour = int(float64(total) * d.Tour)
	teaching = int(float64(total) * d.Teaching)
	screen = int(float64(total) * d.Screen)
	stage = total - tour - teaching - screen
	return stage, tour, teaching, screen
}

var (
	venues = []string{
		"City Theatre", "The Grand Hall", "Riverside Opera House", "Palace Stage",
		"Lyric Playhouse", "The Pavilion", "Harbor Amphitheatre", "National Opera",
		"Westgate Arts Centre", "The Old Mill Theatre",
	}

	productionTitles = []string{
		"Afterglow", "The Winter Line", "Echo Chamber", "Salt and Light",
		"Night Crossing", "Ashfall", "The Long Interval", "Paper Cities",
		"Undertow", "A Measured Distance", "The Glass Season", "Meridian",
	}

	stageRoles = []string{
		"Principal", "Soloist", "Ensemble", "Understudy", "Swing", "Featured Dancer",
	}

	danceStyles = []string{
		"Contemporary", "Ballet", "Jazz", "Hip-Hop", "Tap", "Ballroom", "Commercial",
	}

	eventKinds = []string{
		"Gala Evening", "Corporate Showcase", "Festival Opening", "Private Event",
		"Charity Performance", "Product Launch",
	}

	teamSuffixes = []string{
		"Collective", "Company", "Crew", "Project", "Ensemble",
	}
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts ...Options) *Seeder {
	o := Options{}
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Seeder{db: db, opts: o, factory: NewFactory(db, o)}
}

// ClearAll truncates all seeded tables. PostgreSQL only.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE career_entries, proposals, team_members, teams,
		permission_grants, connections, claims, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedRoster creates numDancers virtual roster profiles with sequential
// display positions, each carrying a generated work history of
// entriesPer career entries. Seeding starts after the highest existing
// roster position so built-in profiles keep their slots.
func (s *Seeder) SeedRoster(numDancers, entriesPer int) ([]*models.User, error) {
	log.Printf("🌱 Seeding %d roster profiles with %d career entries each...", numDancers, entriesPer)

	startOrder, err := s.nextRosterPosition()
	if err != nil {
		return nil, fmt.Errorf("determine roster position: %w", err)
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	flavors := make([]string, 0, len(CategoryDistributions))
	for name := range CategoryDistributions {
		flavors = append(flavors, name)
	}

	dancers := make([]*models.User, 0, numDancers)
	for i := 0; i < numDancers; i++ {
		dancer, err := s.factory.CreateVirtualDancer(startOrder + i)
		if err != nil {
			return nil, fmt.Errorf("create roster profile: %w", err)
		}
		dancers = append(dancers, dancer)

		d := defaultDistribution
		if len(flavors) > 0 && r.Float32() < 0.5 {
			d = CategoryDistributions[flavors[r.Intn(len(flavors))]]
		}
		if err := s.seedWorkHistory(dancer, entriesPer, d); err != nil {
			return nil, fmt.Errorf("seed work history for %s: %w", dancer.Username, err)
		}

		if i > 0 && i%25 == 0 {
			log.Printf("Created %d roster profiles...", i)
		}
	}

	log.Printf("✓ %d roster profiles created", len(dancers))
	return dancers, nil
}

func (s *Seeder) nextRosterPosition() (int, error) {
	if s.opts.DryRun {
		return 1, nil
	}
	var max *int
	err := s.db.Model(&models.User{}).Select("MAX(display_order)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (s *Seeder) seedWorkHistory(dancer *models.User, total int, d Distribution) error {
	stage, tour, teaching, screen := computeCounts(total, d)

	entries := make([]*models.CareerEntry, 0, total)
	for kind, count := range map[string]int{
		entryKindStage:    stage,
		entryKindTour:     tour,
		entryKindTeaching: teaching,
		entryKindScreen:   screen,
	} {
		for i := 0; i < count; i++ {
			entries = append(entries, s.factory.BuildCareerEntry(dancer, kind))
		}
	}

	batchSize := s.opts.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := s.factory.CreateCareerEntriesBatch(entries[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// SeedBookings creates numClients client accounts, each with proposalsPer
// booking proposals in mixed negotiation states.
func (s *Seeder) SeedBookings(numClients, proposalsPer int) ([]*models.User, error) {
	log.Printf("🌱 Seeding %d clients with %d proposals each...", numClients, proposalsPer)

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	statuses := []models.ProposalStatus{
		models.ProposalStatusDraft,
		models.ProposalStatusSent,
		models.ProposalStatusAccepted,
		models.ProposalStatusDeclined,
	}

	clients := make([]*models.User, 0, numClients)
	for i := 0; i < numClients; i++ {
		client, err := s.factory.CreateUser(func(u *models.User) {
			u.Role = models.RoleClient
		})
		if err != nil {
			return nil, fmt.Errorf("create client: %w", err)
		}
		clients = append(clients, client)

		for j := 0; j < proposalsPer; j++ {
			if _, err := s.factory.CreateProposal(client, statuses[r.Intn(len(statuses))]); err != nil {
				return nil, fmt.Errorf("create proposal: %w", err)
			}
		}
	}

	log.Printf("✓ %d clients created", len(clients))
	return clients, nil
}

// SeedTeams groups the given dancers into teams of roughly teamSize. The
// first member of each group leads it.
func (s *Seeder) SeedTeams(dancers []*models.User, teamSize int) ([]*models.Team, error) {
	if teamSize <= 0 {
		teamSize = 4
	}

	teams := make([]*models.Team, 0, len(dancers)/teamSize+1)
	for start := 0; start < len(dancers); start += teamSize {
		end := start + teamSize
		if end > len(dancers) {
			end = len(dancers)
		}
		group := dancers[start:end]

		team, err := s.factory.CreateTeam(group[0])
		if err != nil {
			return nil, fmt.Errorf("create team: %w", err)
		}
		for _, member := range group[1:] {
			if err := s.factory.AddTeamMember(team, member); err != nil {
				return nil, fmt.Errorf("add team member: %w", err)
			}
		}
		teams = append(teams, team)
	}

	log.Printf("✓ %d teams created", len(teams))
	return teams, nil
}

// ApplyPreset runs a named seeding scenario.
func (s *Seeder) ApplyPreset(name string) error {
	switch name {
	case "DemoAgency":
		dancers, err := s.SeedRoster(8, 4)
		if err != nil {
			return err
		}
		if _, err := s.SeedBookings(3, 2); err != nil {
			return err
		}
		_, err = s.SeedTeams(dancers, 4)
		return err
	case "MegaRoster":
		dancers, err := s.SeedRoster(40, 6)
		if err != nil {
			return err
		}
		if _, err := s.SeedBookings(10, 3); err != nil {
			return err
		}
		_, err = s.SeedTeams(dancers, 5)
		return err
	default:
		return fmt.Errorf("unknown preset: %s", name)
	}
}
