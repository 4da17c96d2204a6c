package seed

import (
	"context"
	"strings"
	"testing"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/models"
	"devconnector/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), &config.Config{DBMaxOpenConns: 1, DBMaxIdleConns: 1})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestFactory_CreateUser(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db, 1, Options{HashCost: bcrypt.MinCost})

	user, err := f.CreateUser(context.Background())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Name)
	assert.Equal(t, strings.ToLower(user.Email), user.Email)
	assert.True(t, strings.HasPrefix(user.Avatar, "https://www.gravatar.com/avatar/"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(DefaultPassword)))
}

func TestFactory_CreateProfile(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db, 2, Options{HashCost: bcrypt.MinCost})
	ctx := context.Background()

	user, err := f.CreateUser(ctx)
	require.NoError(t, err)

	profile, err := f.CreateProfile(ctx, user, func(p *models.Profile) { p.Status = "Developer" })
	require.NoError(t, err)

	assert.Equal(t, "Developer", profile.Status)
	assert.NotEmpty(t, profile.Skills)
	assert.NotEmpty(t, profile.Experience)
	assert.Len(t, profile.Education, 1)
	require.NotNil(t, profile.User)
	assert.Equal(t, user.Name, profile.User.Name)
}

func TestFactory_Deterministic(t *testing.T) {
	a := NewFactory(setupTestDB(t), 42, Options{HashCost: bcrypt.MinCost})
	b := NewFactory(setupTestDB(t), 42, Options{HashCost: bcrypt.MinCost})

	ua, err := a.CreateUser(context.Background())
	require.NoError(t, err)
	ub, err := b.CreateUser(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ua.Name, ub.Name)
	assert.Equal(t, ua.Email, ub.Email)
}

func TestSeeder_Random(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, 3, Options{HashCost: bcrypt.MinCost})

	sum, err := s.Random(context.Background(), 3, 2)
	require.NoError(t, err)

	assert.Equal(t, Summary{Users: 3, Profiles: 3, Posts: 6}, sum)
	assert.Equal(t, int64(3), count(t, db, &models.User{}))
	assert.Equal(t, int64(3), count(t, db, &models.Profile{}))
	assert.Equal(t, int64(6), count(t, db, &models.Post{}))
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, 4, Options{HashCost: bcrypt.MinCost})
	ctx := context.Background()

	_, err := s.Random(ctx, 2, 1)
	require.NoError(t, err)
	require.NoError(t, s.ClearAll(ctx))

	for _, model := range []any{&models.User{}, &models.Profile{}, &models.Experience{}, &models.Education{}, &models.Post{}} {
		assert.Zero(t, count(t, db, model), "%T", model)
	}
}

func TestLoadPreset(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p, err := LoadPreset(strings.NewReader(`
users:
  - name: Ann
    email: ann@example.com
    profile:
      status: Developer
      skills: [Go]
    posts: [hello]
`))
		require.NoError(t, err)
		require.Len(t, p.Users, 1)
		require.NotNil(t, p.Users[0].Profile)
		assert.Equal(t, []string{"Go"}, p.Users[0].Profile.Skills)
	})

	t.Run("Unknown key", func(t *testing.T) {
		_, err := LoadPreset(strings.NewReader("users:\n  - name: Ann\n    email: a@b.c\n    age: 3\n"))
		assert.Error(t, err)
	})

	t.Run("Missing email", func(t *testing.T) {
		_, err := LoadPreset(strings.NewReader("users:\n  - name: Ann\n"))
		assert.Error(t, err)
	})

	t.Run("Built-in demo", func(t *testing.T) {
		p, err := LoadPresetFile("demo")
		require.NoError(t, err)
		assert.NotEmpty(t, p.Users)
	})

	t.Run("Unknown preset", func(t *testing.T) {
		_, err := LoadPresetFile("no-such-preset")
		assert.Error(t, err)
	})
}

func TestSeeder_ApplyDemoPreset(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, 5, Options{HashCost: bcrypt.MinCost})
	ctx := context.Background()

	p, err := LoadPresetFile("demo")
	require.NoError(t, err)

	sum, err := s.ApplyPreset(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 3, Profiles: 2, Posts: 4}, sum)

	users := repository.NewUserRepository(db)
	ada, err := users.GetByEmail(ctx, "ada@devconnector.dev")
	require.NoError(t, err)
	require.NotNil(t, ada)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(ada.Password), []byte(DefaultPassword)))

	profile, err := repository.NewProfileRepository(db).GetByUserID(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, profile.Experience, 2)
	assert.Equal(t, "Analyst", profile.Experience[0].Title)
	assert.Equal(t, "Translator", profile.Experience[1].Title)
	assert.Nil(t, profile.Experience[0].To)
	assert.True(t, profile.Experience[0].Current)
}

func TestSeeder_ApplyPresetBadDate(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, 6, Options{HashCost: bcrypt.MinCost})

	p, err := LoadPreset(strings.NewReader(`
users:
  - name: Ann
    email: ann@example.com
    profile:
      status: Developer
      experience:
        - title: Dev
          company: Acme
          from: yesterday
`))
	require.NoError(t, err)

	_, err = s.ApplyPreset(context.Background(), p)
	assert.ErrorContains(t, err, "invalid from date")
}
