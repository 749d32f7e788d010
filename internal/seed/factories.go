// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"stagedoor/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:        models.RoleGeneral,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateVirtualDancer constructs and persists an agency-managed roster
// profile at the given display position. Virtual profiles have no usable
// login until a claim links a real account to them.
func (f *Factory) CreateVirtualDancer(order int, overrides ...func(*models.User)) (*models.User, error) {
	name := gofakeit.Name()
	username := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + fmt.Sprintf("%d", gofakeit.Number(10, 99))

	displayOrder := order
	return f.CreateUser(append([]func(*models.User){func(u *models.User) {
		u.Username = username
		u.Email = fmt.Sprintf("%s@roster.stagedoor.local", username)
		u.DisplayName = name
		u.Role = models.RoleDancer
		u.IsVirtual = true
		u.DisplayOrder = &displayOrder
		u.Bio = fmt.Sprintf("%s based in %s.", gofakeit.RandomString(danceStyles), gofakeit.City())
	}}, overrides...)...)
}

// BuildCareerEntry constructs a career entry of the given kind for the
// owner but does not persist it. Useful for batching.
func (f *Factory) BuildCareerEntry(owner *models.User, kind string, overrides ...func(*models.CareerEntry)) *models.CareerEntry {
	entry := &models.CareerEntry{
		UserID: owner.ID,
		Title:  gofakeit.RandomString(productionTitles),
		Venue:  gofakeit.RandomString(venues),
		Role:   gofakeit.RandomString(stageRoles),
	}

	// realistic engagement spread over the past years
	maxYears := f.opts.MaxYears
	if maxYears <= 0 {
		maxYears = 8
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxYears * 365)
	entry.StartedOn = time.Now().AddDate(0, 0, -daysBack)

	switch kind {
	case entryKindTour:
		entry.Title = fmt.Sprintf("%s (Tour)", entry.Title)
		entry.Venue = fmt.Sprintf("%s / %s", gofakeit.City(), gofakeit.City())
		ended := entry.StartedOn.AddDate(0, 1+r.Intn(8), 0)
		entry.EndedOn = &ended
	case entryKindTeaching:
		entry.Title = fmt.Sprintf("%s Workshop", gofakeit.RandomString(danceStyles))
		entry.Role = "Instructor"
		entry.Description = gofakeit.Sentence(12)
	case entryKindScreen:
		entry.Venue = gofakeit.Company() + " Studios"
		entry.Role = gofakeit.RandomString([]string{"Featured Dancer", "Ensemble", "Movement Double"})
	default:
		// stage engagement, sometimes already concluded
		if r.Float32() < 0.6 {
			ended := entry.StartedOn.AddDate(0, r.Intn(6), 14)
			entry.EndedOn = &ended
		}
		entry.Description = gofakeit.Sentence(8)
	}

	for _, override := range overrides {
		override(entry)
	}
	return entry
}

// CreateCareerEntriesBatch persists multiple entries in a single DB call.
func (f *Factory) CreateCareerEntriesBatch(entries []*models.CareerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, e := range entries {
			f.nextID++
			e.ID = f.nextID
		}
		log.Printf("[dry-run] CreateCareerEntriesBatch: %d entries (no DB write)", len(entries))
		return nil
	}
	return f.db.Create(&entries).Error
}

// CreateProposal constructs and persists a booking proposal owned by the
// given account.
func (f *Factory) CreateProposal(owner *models.User, status models.ProposalStatus, overrides ...func(*models.Proposal)) (*models.Proposal, error) {
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	eventDate := time.Now().AddDate(0, 1+r.Intn(10), r.Intn(28))

	proposal := &models.Proposal{
		UserID:      owner.ID,
		Title:       fmt.Sprintf("%s at %s", gofakeit.RandomString(eventKinds), gofakeit.RandomString(venues)),
		Description: gofakeit.Paragraph(1, 2, 8, "\n"),
		EventDate:   &eventDate,
		Budget:      int64(gofakeit.Number(50, 500)) * 1000,
		Status:      status,
	}

	for _, override := range overrides {
		override(proposal)
	}

	if f.opts.DryRun {
		f.nextID++
		proposal.ID = f.nextID
		log.Printf("[dry-run] CreateProposal: owner=%d status=%s title=%q", proposal.UserID, proposal.Status, proposal.Title)
		return proposal, nil
	}

	if err := f.db.Create(proposal).Error; err != nil {
		return nil, err
	}
	return proposal, nil
}

// CreateTeam constructs and persists a team with the creator enrolled as
// its leader.
func (f *Factory) CreateTeam(creator *models.User, overrides ...func(*models.Team)) (*models.Team, error) {
	team := &models.Team{
		Name:            fmt.Sprintf("%s %s", gofakeit.City(), gofakeit.RandomString(teamSuffixes)),
		Description:     gofakeit.Sentence(10),
		CreatedByUserID: creator.ID,
	}

	for _, override := range overrides {
		override(team)
	}

	if f.opts.DryRun {
		f.nextID++
		team.ID = f.nextID
		log.Printf("[dry-run] CreateTeam: %q led by user %d", team.Name, creator.ID)
		return team, nil
	}

	if err := f.db.Create(team).Error; err != nil {
		return nil, err
	}
	member := &models.TeamMember{
		TeamID: team.ID,
		UserID: creator.ID,
		Role:   models.TeamMemberRoleLeader,
	}
	if err := f.db.Create(member).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// AddTeamMember enrolls a user in a team with the member role.
func (f *Factory) AddTeamMember(team *models.Team, user *models.User) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] AddTeamMember: user %d -> team %d", user.ID, team.ID)
		return nil
	}
	return f.db.Create(&models.TeamMember{
		TeamID: team.ID,
		UserID: user.ID,
		Role:   models.TeamMemberRoleMember,
	}).Error
}
