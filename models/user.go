package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LoginEmail  = "email"
	LoginGithub = "github"
	LoginKakao  = "kakao"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	LanguageEnglish = "en"
	LanguageKorean  = "kr"

	CurrencyUSD = "usd"
	CurrencyKRW = "krw"
)

// User serialises only its public face: name, bio, avatar and superhost
// badge. Account details are rendered explicitly for the owner.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"-"`
	Email     string `gorm:"size:254" json:"-"`
	Password  string `gorm:"size:255" json:"-"` // bcrypt hash; empty for social-only accounts
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`

	Bio       string          `gorm:"type:text" json:"bio"`
	Gender    string          `gorm:"size:10" json:"-"`
	BirthDate *datatypes.Date `json:"-"`
	Language  string          `gorm:"size:2" json:"-"`
	Currency  string          `gorm:"size:3" json:"-"`
	Avatar    string          `gorm:"size:255" json:"avatar"`

	LoginMethod   string `gorm:"size:50;default:email" json:"-"`
	EmailVerified bool   `gorm:"default:false" json:"-"`
	EmailSecret   string `gorm:"size:120;index;default:''" json:"-"`
	IsSuperhost   bool   `gorm:"default:false" json:"is_superhost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasUsablePassword reports whether the account can sign in with a password.
func (u *User) HasUsablePassword() bool {
	return u.Password != ""
}
