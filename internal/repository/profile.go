package repository

import (
	"context"
	"errors"

	"devconnector/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Not-found messages reported by ProfileRepository.
const (
	MsgNoProfile          = "There is no profile for this user"
	MsgExperienceNotFound = "Experience not found"
	MsgEducationNotFound  = "Education not found"
)

// ProfileRepository defines persistence operations for profiles and their entries.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	// Upsert inserts profile, or, when the user already has one, overwrites
	// only the given columns. It is a single statement.
	Upsert(ctx context.Context, profile *models.Profile, columns []string) error

	AddExperience(ctx context.Context, userID uint, exp *models.Experience) error
	UpdateExperience(ctx context.Context, userID uint, exp *models.Experience) error
	DeleteExperience(ctx context.Context, userID uint, expID string) error

	AddEducation(ctx context.Context, userID uint, edu *models.Education) error
	UpdateEducation(ctx context.Context, userID uint, edu *models.Education) error
	DeleteEducation(ctx context.Context, userID uint, eduID string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func entryOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at DESC")
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "avatar") }).
		Preload("Experience", entryOrder).
		Preload("Education", entryOrder)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := withDetails(r.db.WithContext(ctx)).Where("user_id = ?", userID).Take(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(MsgNoProfile)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	if err := withDetails(r.db.WithContext(ctx)).Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile, columns []string) error {
	updates := append(append(make([]string, 0, len(columns)+1), columns...), "updated_at")
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}).
		Create(profile).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) AddExperience(ctx context.Context, userID uint, exp *models.Experience) error {
	return r.addEntry(ctx, userID, &models.Experience{}, func(tx *gorm.DB, profileID uint, position int) error {
		exp.ID = uuid.NewString()
		exp.ProfileID = profileID
		exp.Position = position
		return tx.Create(exp).Error
	})
}

func (r *profileRepository) UpdateExperience(ctx context.Context, userID uint, exp *models.Experience) error {
	return r.updateEntry(ctx, userID, &models.Experience{}, exp.ID, map[string]any{
		"title":       exp.Title,
		"company":     exp.Company,
		"location":    exp.Location,
		"from_date":   exp.From,
		"to_date":     exp.To,
		"current":     exp.Current,
		"description": exp.Description,
	}, MsgExperienceNotFound)
}

func (r *profileRepository) DeleteExperience(ctx context.Context, userID uint, expID string) error {
	return r.deleteEntry(ctx, userID, &models.Experience{}, expID, MsgExperienceNotFound)
}

func (r *profileRepository) AddEducation(ctx context.Context, userID uint, edu *models.Education) error {
	return r.addEntry(ctx, userID, &models.Education{}, func(tx *gorm.DB, profileID uint, position int) error {
		edu.ID = uuid.NewString()
		edu.ProfileID = profileID
		edu.Position = position
		return tx.Create(edu).Error
	})
}

func (r *profileRepository) UpdateEducation(ctx context.Context, userID uint, edu *models.Education) error {
	return r.updateEntry(ctx, userID, &models.Education{}, edu.ID, map[string]any{
		"school":         edu.School,
		"degree":         edu.Degree,
		"field_of_study": edu.FieldOfStudy,
		"from_date":      edu.From,
		"to_date":        edu.To,
		"current":        edu.Current,
		"description":    edu.Description,
	}, MsgEducationNotFound)
}

func (r *profileRepository) DeleteEducation(ctx context.Context, userID uint, eduID string) error {
	return r.deleteEntry(ctx, userID, &models.Education{}, eduID, MsgEducationNotFound)
}

// addEntry inserts an entry ahead of the profile's existing ones.
func (r *profileRepository) addEntry(ctx context.Context, userID uint, model any, create func(tx *gorm.DB, profileID uint, position int) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profileID, err := profileIDFor(tx, userID)
		if err != nil {
			return err
		}

		var first int
		if err := tx.Model(model).
			Where("profile_id = ?", profileID).
			Select("COALESCE(MIN(position), 0)").
			Scan(&first).Error; err != nil {
			return err
		}

		return create(tx, profileID, first-1)
	})
	return wrapError(err)
}

func (r *profileRepository) updateEntry(ctx context.Context, userID uint, model any, id string, values map[string]any, notFound string) error {
	db := r.db.WithContext(ctx)
	profileID, err := profileIDFor(db, userID)
	if err != nil {
		return wrapError(err)
	}

	res := db.Model(model).Where("id = ? AND profile_id = ?", id, profileID).Updates(values)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(notFound)
	}
	return nil
}

func (r *profileRepository) deleteEntry(ctx context.Context, userID uint, model any, id, notFound string) error {
	db := r.db.WithContext(ctx)
	profileID, err := profileIDFor(db, userID)
	if err != nil {
		return wrapError(err)
	}

	res := db.Where("id = ? AND profile_id = ?", id, profileID).Delete(model)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(notFound)
	}
	return nil
}

func profileIDFor(db *gorm.DB, userID uint) (uint, error) {
	var profile models.Profile
	err := db.Select("id").Where("user_id = ?", userID).Take(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError(MsgNoProfile)
		}
		return 0, err
	}
	return profile.ID, nil
}

// wrapError keeps application errors and hides everything else behind an internal error.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}
