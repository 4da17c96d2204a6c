// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devconnector/internal/avatar"
	"devconnector/internal/models"
	"devconnector/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every generated account.
const DefaultPassword = "password123"

var skillPool = []string{
	"Go", "PostgreSQL", "Redis", "Docker", "Kubernetes", "React", "TypeScript",
	"Node.js", "Python", "Rust", "gRPC", "GraphQL", "AWS", "Terraform", "Linux",
}

var statusPool = []string{
	"Developer", "Junior Developer", "Senior Developer", "Manager",
	"Student or Learning", "Instructor or Teacher", "Intern", "Other",
}

// Options tunes generated data.
type Options struct {
	// HashCost is the bcrypt cost for generated passwords. Zero selects bcrypt.DefaultCost.
	HashCost int
	// MaxDays bounds how far in the past generated dates reach.
	MaxDays int
}

// Factory builds domain entities and persists them through the repositories.
type Factory struct {
	faker    *gofakeit.Faker
	opts     Options
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
}

// NewFactory creates a Factory bound to db. The same seed yields the same data.
func NewFactory(db *gorm.DB, seed int64, opts Options) *Factory {
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 365
	}
	return &Factory{
		faker:    gofakeit.New(seed),
		opts:     opts,
		users:    repository.NewUserRepository(db),
		profiles: repository.NewProfileRepository(db),
		posts:    repository.NewPostRepository(db),
	}
}

// CreateUser persists a random account. Overrides run before the password is hashed.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Name:     first + " " + last,
		Email:    strings.ToLower(fmt.Sprintf("%s.%s.%d@%s", first, last, f.faker.Number(100, 9999), f.faker.DomainName())),
		Password: DefaultPassword,
	}
	for _, override := range overrides {
		override(user)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), f.opts.HashCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hash)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Avatar == "" {
		user.Avatar = avatar.Gravatar(user.Email)
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile upserts a random profile for user with a few experience and
// education entries.
func (f *Factory) CreateProfile(ctx context.Context, user *models.User, overrides ...func(*models.Profile)) (*models.Profile, error) {
	handle := strings.ToLower(f.faker.Username())
	profile := &models.Profile{
		UserID:         user.ID,
		Company:        f.faker.Company(),
		Website:        "https://" + f.faker.DomainName(),
		Location:       f.faker.City() + ", " + f.faker.Country(),
		Status:         f.faker.RandomString(statusPool),
		Skills:         f.skills(),
		Bio:            f.faker.Sentence(12),
		GitHubUsername: handle,
		Social: models.Social{
			Twitter:  "https://twitter.com/" + handle,
			LinkedIn: "https://linkedin.com/in/" + handle,
		},
	}
	for _, override := range overrides {
		override(profile)
	}

	if err := f.profiles.Upsert(ctx, profile, profileColumns); err != nil {
		return nil, err
	}

	for i := f.faker.Number(1, 3); i > 0; i-- {
		if err := f.profiles.AddExperience(ctx, user.ID, f.experience()); err != nil {
			return nil, err
		}
	}
	if err := f.profiles.AddEducation(ctx, user.ID, f.education()); err != nil {
		return nil, err
	}

	return f.profiles.GetByUserID(ctx, user.ID)
}

// CreatePost persists a random post by user.
func (f *Factory) CreatePost(ctx context.Context, user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		UserID:    user.ID,
		Text:      f.faker.Paragraph(1, 3, 12, " "),
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: f.pastTime(),
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// profileColumns is every column a generated profile sets.
var profileColumns = []string{
	"company", "website", "location", "bio", "status", "github_username", "skills",
	"social_youtube", "social_twitter", "social_facebook", "social_linkedin", "social_instagram",
}

func (f *Factory) skills() []string {
	n := f.faker.Number(2, 5)
	picked := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n {
		s := f.faker.RandomString(skillPool)
		if !seen[s] {
			seen[s] = true
			picked = append(picked, s)
		}
	}
	return picked
}

func (f *Factory) experience() *models.Experience {
	from := f.pastDate()
	exp := &models.Experience{
		Title:       f.faker.JobTitle(),
		Company:     f.faker.Company(),
		Location:    f.faker.City(),
		From:        from,
		Description: f.faker.Sentence(10),
	}
	if f.faker.Bool() {
		exp.Current = true
	} else {
		to := from.AddDate(0, f.faker.Number(3, 36), 0)
		exp.To = &to
	}
	return exp
}

func (f *Factory) education() *models.Education {
	from := f.pastDate()
	to := from.AddDate(f.faker.Number(2, 5), 0, 0)
	return &models.Education{
		School:       f.faker.Company() + " University",
		Degree:       f.faker.RandomString([]string{"BSc", "MSc", "BA", "PhD", "Bootcamp"}),
		FieldOfStudy: f.faker.RandomString([]string{"Computer Science", "Mathematics", "Physics", "Design"}),
		From:         from,
		To:           &to,
	}
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24)) * time.Hour
	return time.Now().UTC().Add(-back)
}

func (f *Factory) pastDate() time.Time {
	t := f.pastTime().AddDate(-f.faker.Number(1, 10), 0, 0)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
