package models

import "time"

// Profile is the developer profile owned by exactly one user.
type Profile struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"not null;uniqueIndex" json:"-"`
	User           *UserSummary `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `gorm:"not null" json:"status"`
	Skills         []string     `gorm:"serializer:json;type:text" json:"skills"`
	Bio            string       `gorm:"type:text" json:"bio,omitempty"`
	GitHubUsername string       `gorm:"column:github_username" json:"githubusername,omitempty"`
	Social         Social       `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience     []Experience `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"experience"`
	Education      []Education  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"education"`
	CreatedAt      time.Time    `json:"date"`
	UpdatedAt      time.Time    `json:"-"`
}

// Social holds the profile's social network links.
type Social struct {
	YouTube   string `gorm:"column:youtube" json:"youtube,omitempty"`
	Twitter   string `gorm:"column:twitter" json:"twitter,omitempty"`
	Facebook  string `gorm:"column:facebook" json:"facebook,omitempty"`
	LinkedIn  string `gorm:"column:linkedin" json:"linkedin,omitempty"`
	Instagram string `gorm:"column:instagram" json:"instagram,omitempty"`
}

// Experience is a job entry of a profile. ID is generated on insert and
// addresses the entry for later updates and removal.
type Experience struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	ProfileID   uint       `gorm:"not null;index" json:"-"`
	Position    int        `gorm:"not null;default:0" json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Company     string     `gorm:"not null" json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `gorm:"column:from_date;not null" json:"from"`
	To          *time.Time `gorm:"column:to_date" json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time  `json:"-"`
}

// Education is a school entry of a profile.
type Education struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	ProfileID    uint       `gorm:"not null;index" json:"-"`
	Position     int        `gorm:"not null;default:0" json:"-"`
	School       string     `gorm:"not null" json:"school"`
	Degree       string     `gorm:"not null" json:"degree"`
	FieldOfStudy string     `gorm:"not null" json:"fieldofstudy"`
	From         time.Time  `gorm:"column:from_date;not null" json:"from"`
	To           *time.Time `gorm:"column:to_date" json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time  `json:"-"`
}

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Profile{},
		&Experience{},
		&Education{},
		&Post{},
	}
}
