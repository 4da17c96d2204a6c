package seed

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"time"

	"devconnector/internal/middleware"
	"devconnector/internal/models"
	"devconnector/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed presets/*.yml
var presetFS embed.FS

// Preset is a hand-written data set loaded from YAML.
type Preset struct {
	Users []PresetUser `yaml:"users"`
}

type PresetUser struct {
	Name     string         `yaml:"name"`
	Email    string         `yaml:"email"`
	Password string         `yaml:"password"`
	Profile  *PresetProfile `yaml:"profile"`
	Posts    []string       `yaml:"posts"`
}

type PresetProfile struct {
	Status         string             `yaml:"status"`
	Company        string             `yaml:"company"`
	Website        string             `yaml:"website"`
	Location       string             `yaml:"location"`
	Bio            string             `yaml:"bio"`
	GitHubUsername string             `yaml:"githubusername"`
	Skills         []string           `yaml:"skills"`
	Social         PresetSocial       `yaml:"social"`
	Experience     []PresetExperience `yaml:"experience"`
	Education      []PresetEducation  `yaml:"education"`
}

type PresetSocial struct {
	YouTube   string `yaml:"youtube"`
	Twitter   string `yaml:"twitter"`
	Facebook  string `yaml:"facebook"`
	LinkedIn  string `yaml:"linkedin"`
	Instagram string `yaml:"instagram"`
}

// PresetExperience entries are listed oldest first; the last one ends up on top.
type PresetExperience struct {
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Location    string `yaml:"location"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Current     bool   `yaml:"current"`
	Description string `yaml:"description"`
}

type PresetEducation struct {
	School       string `yaml:"school"`
	Degree       string `yaml:"degree"`
	FieldOfStudy string `yaml:"fieldofstudy"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	Current      bool   `yaml:"current"`
	Description  string `yaml:"description"`
}

// LoadPreset decodes a preset, rejecting unknown keys.
func LoadPreset(r io.Reader) (*Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Preset
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode preset: %w", err)
	}
	for i, u := range p.Users {
		if u.Email == "" || u.Name == "" {
			return nil, fmt.Errorf("preset user %d: name and email are required", i)
		}
	}
	return &p, nil
}

// LoadPresetFile reads a preset from disk, or from the built-in presets when
// name has no such file and matches one of them (e.g. "demo").
func LoadPresetFile(name string) (*Preset, error) {
	f, err := os.Open(name)
	if err == nil {
		defer f.Close()
		return LoadPreset(f)
	}

	builtin, berr := presetFS.Open(path.Join("presets", name+".yml"))
	if berr != nil {
		return nil, fmt.Errorf("preset %q not found: %w", name, err)
	}
	defer builtin.Close()
	return LoadPreset(builtin)
}

// Summary counts what a seeding run created.
type Summary struct {
	Users    int
	Profiles int
	Posts    int
}

// Seeder populates the database.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

func NewSeeder(db *gorm.DB, seed int64, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, seed, opts)}
}

// ClearAll deletes every row of every application table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Post{}, &models.Experience{}, &models.Education{}, &models.Profile{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "database cleared")
	return nil
}

// Random creates numUsers accounts, each with a profile and postsPerUser posts.
func (s *Seeder) Random(ctx context.Context, numUsers, postsPerUser int) (Summary, error) {
	var sum Summary
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser(ctx)
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		sum.Users++

		if _, err := s.factory.CreateProfile(ctx, user); err != nil {
			return sum, fmt.Errorf("create profile: %w", err)
		}
		sum.Profiles++

		for j := 0; j < postsPerUser; j++ {
			if _, err := s.factory.CreatePost(ctx, user); err != nil {
				return sum, fmt.Errorf("create post: %w", err)
			}
			sum.Posts++
		}
	}

	middleware.Logger.InfoContext(ctx, "random data seeded",
		slog.Int("users", sum.Users),
		slog.Int("profiles", sum.Profiles),
		slog.Int("posts", sum.Posts),
	)
	return sum, nil
}

// ApplyPreset creates exactly the users, profiles and posts listed in p.
func (s *Seeder) ApplyPreset(ctx context.Context, p *Preset) (Summary, error) {
	var sum Summary
	f := s.factory

	for _, pu := range p.Users {
		user, err := f.CreateUser(ctx, func(u *models.User) {
			u.Name = pu.Name
			u.Email = pu.Email
			if pu.Password != "" {
				u.Password = pu.Password
			}
		})
		if err != nil {
			return sum, fmt.Errorf("create user %s: %w", pu.Email, err)
		}
		sum.Users++

		if pu.Profile != nil {
			if err := s.applyProfile(ctx, user, pu.Profile); err != nil {
				return sum, fmt.Errorf("profile of %s: %w", pu.Email, err)
			}
			sum.Profiles++
		}

		for _, text := range pu.Posts {
			if _, err := f.CreatePost(ctx, user, func(post *models.Post) { post.Text = text }); err != nil {
				return sum, fmt.Errorf("post of %s: %w", pu.Email, err)
			}
			sum.Posts++
		}
	}

	middleware.Logger.InfoContext(ctx, "preset seeded",
		slog.Int("users", sum.Users),
		slog.Int("profiles", sum.Profiles),
		slog.Int("posts", sum.Posts),
	)
	return sum, nil
}

func (s *Seeder) applyProfile(ctx context.Context, user *models.User, pp *PresetProfile) error {
	f := s.factory
	profile := &models.Profile{
		UserID:         user.ID,
		Company:        pp.Company,
		Website:        pp.Website,
		Location:       pp.Location,
		Status:         pp.Status,
		Skills:         pp.Skills,
		Bio:            pp.Bio,
		GitHubUsername: pp.GitHubUsername,
		Social: models.Social{
			YouTube:   pp.Social.YouTube,
			Twitter:   pp.Social.Twitter,
			Facebook:  pp.Social.Facebook,
			LinkedIn:  pp.Social.LinkedIn,
			Instagram: pp.Social.Instagram,
		},
	}
	if err := f.profiles.Upsert(ctx, profile, profileColumns); err != nil {
		return err
	}

	for _, e := range pp.Experience {
		from, to, err := parsePresetRange(e.From, e.To)
		if err != nil {
			return fmt.Errorf("experience %q: %w", e.Title, err)
		}
		if err := f.profiles.AddExperience(ctx, user.ID, &models.Experience{
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        from,
			To:          to,
			Current:     e.Current,
			Description: e.Description,
		}); err != nil {
			return err
		}
	}

	for _, e := range pp.Education {
		from, to, err := parsePresetRange(e.From, e.To)
		if err != nil {
			return fmt.Errorf("education %q: %w", e.School, err)
		}
		if err := f.profiles.AddEducation(ctx, user.ID, &models.Education{
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         from,
			To:           to,
			Current:      e.Current,
			Description:  e.Description,
		}); err != nil {
			return err
		}
	}
	return nil
}

func parsePresetRange(fromStr, toStr string) (from time.Time, to *time.Time, err error) {
	if from, err = validation.ParseDate(fromStr); err != nil {
		return from, nil, fmt.Errorf("invalid from date %q", fromStr)
	}
	if to, err = validation.ParseOptionalDate(toStr); err != nil {
		return from, nil, fmt.Errorf("invalid to date %q", toStr)
	}
	return from, to, nil
}
