package seed

import (
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInDancer is a permanent agency roster profile.
type BuiltInDancer struct {
	Username     string
	DisplayName  string
	Bio          string
	DisplayOrder int
	// SignatureCredit is the headline production attached to the
	// profile's work history on first seed.
	SignatureCredit string
	SignatureVenue  string
}

// BuiltInRoster defines the agency's permanent showcase profiles. These
// are seeded as virtual accounts and keep their roster slots across
// re-seeds.
var BuiltInRoster = []BuiltInDancer{
	{Username: "mara.voss", DisplayName: "Mara Voss", Bio: "Contemporary soloist and choreographer.", DisplayOrder: 1, SignatureCredit: "Afterglow", SignatureVenue: "City Theatre"},
	{Username: "theo.lindqvist", DisplayName: "Theo Lindqvist", Bio: "Ballet principal, classical repertoire.", DisplayOrder: 2, SignatureCredit: "The Winter Line", SignatureVenue: "Riverside Opera House"},
	{Username: "ines.okafor", DisplayName: "Ines Okafor", Bio: "Commercial and hip-hop performer.", DisplayOrder: 3, SignatureCredit: "Echo Chamber", SignatureVenue: "The Pavilion"},
	{Username: "dario.ferreira", DisplayName: "Dario Ferreira", Bio: "Ballroom and latin specialist.", DisplayOrder: 4, SignatureCredit: "Salt and Light", SignatureVenue: "Palace Stage"},
	{Username: "yuki.tanahara", DisplayName: "Yuki Tanahara", Bio: "Contemporary and aerial work.", DisplayOrder: 5, SignatureCredit: "Night Crossing", SignatureVenue: "Harbor Amphitheatre"},
	{Username: "colette.marchand", DisplayName: "Colette Marchand", Bio: "Jazz and musical theatre.", DisplayOrder: 6, SignatureCredit: "Paper Cities", SignatureVenue: "Lyric Playhouse"},
}

// Roster seeds the permanent built-in roster profiles and their
// signature career credits. Safe to run repeatedly.
func Roster(db *gorm.DB) error {
	for _, item := range BuiltInRoster {
		err := db.Transaction(func(tx *gorm.DB) error {
			order := item.DisplayOrder
			profile := models.User{
				Username:     item.Username,
				Email:        fmt.Sprintf("%s@roster.stagedoor.local", item.Username),
				Password:     "!", // no usable login until claimed
				DisplayName:  item.DisplayName,
				Bio:          item.Bio,
				Role:         models.RoleDancer,
				IsVirtual:    true,
				DisplayOrder: &order,
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "username"}},
				DoUpdates: clause.AssignmentColumns([]string{"display_name", "bio", "updated_at"}),
				// Claimed profiles keep the owner's edits.
				Where: clause.Where{Exprs: []clause.Expression{
					clause.Eq{Column: clause.Column{Name: "is_virtual"}, Value: true},
				}},
			}).Create(&profile).Error; err != nil {
				return err
			}

			if profile.ID == 0 {
				if err := tx.Where("username = ?", item.Username).First(&profile).Error; err != nil {
					return err
				}
			}

			// A claimed profile keeps the owner's edits; only top up
			// the signature credit while the profile is still virtual.
			if !profile.IsVirtual {
				return nil
			}

			var existing models.CareerEntry
			queryErr := tx.Where("user_id = ? AND title = ?", profile.ID, item.SignatureCredit).
				First(&existing).Error
			switch {
			case queryErr == nil:
				return nil
			case !errors.Is(queryErr, gorm.ErrRecordNotFound):
				return queryErr
			}

			entry := models.CareerEntry{
				UserID:    profile.ID,
				Title:     item.SignatureCredit,
				Venue:     item.SignatureVenue,
				Role:      "Principal",
				StartedOn: time.Now().AddDate(-1, 0, 0),
			}
			return tx.Create(&entry).Error
		})
		if err != nil {
			return fmt.Errorf("seed built-in roster profile %s: %w", item.Username, err)
		}
	}

	return nil
}
