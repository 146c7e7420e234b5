package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultProfilePic is stored for users that never uploaded a picture
const DefaultProfilePic = "avatar.png"

// User is an account and the owner of the three social edge sets.
// Followers, Following and Requests are independent directed relations;
// nothing keeps them symmetric.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"size:30;uniqueIndex;not null" validate:"required,max=30"`
	Email       string    `json:"email" gorm:"size:255;uniqueIndex;not null" validate:"required,email,max=255"`
	FullName    string    `json:"fullname" gorm:"column:fullname;size:60" validate:"max=60"`
	Bio         string    `json:"bio" gorm:"type:text"`
	URL         string    `json:"url" gorm:"size:200" validate:"omitempty,url,max=200"`
	ProfilePic  string    `json:"profile_pic" gorm:"size:255;default:avatar.png"`
	Password    string    `json:"-" gorm:"not null"` // bcrypt hash
	IsActive    bool      `json:"is_active" gorm:"not null"`
	IsStaff     bool      `json:"is_staff" gorm:"not null"`
	IsSuperuser bool      `json:"is_superuser" gorm:"not null"`
	DateJoined  time.Time `json:"date_joined" gorm:"autoCreateTime;<-:create"`

	Followers []*User `json:"-" gorm:"many2many:user_followers;joinForeignKey:UserID;joinReferences:FollowerID"`
	Following []*User `json:"-" gorm:"many2many:user_following;joinForeignKey:UserID;joinReferences:FollowingID"`
	Requests  []*User `json:"-" gorm:"many2many:user_requests;joinForeignKey:UserID;joinReferences:RequesterID"`
}

// BeforeCreate fills the defaults gorm would otherwise leave to the database.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ProfilePic == "" {
		u.ProfilePic = DefaultProfilePic
	}
	return nil
}

func (u *User) String() string {
	return u.Username
}

// UserCompact is the public projection used in edge listings
type UserCompact struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"fullname"`
	ProfilePic string `json:"profile_pic"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
	}
}

// CreateUserRequest carries the account fields accepted at creation time.
// Email and Username are checked for emptiness before anything else.
type CreateUserRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FullName   string `json:"fullname" validate:"max=60"`
	Bio        string `json:"bio"`
	URL        string `json:"url" validate:"omitempty,url,max=200"`
	ProfilePic string `json:"profile_pic"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

type UpdateUserRequest struct {
	FullName   *string `json:"fullname,omitempty" validate:"omitempty,max=60"`
	Bio        *string `json:"bio,omitempty"`
	URL        *string `json:"url,omitempty" validate:"omitempty,url,max=200"`
	ProfilePic *string `json:"profile_pic,omitempty" validate:"omitempty,max=255"`
}
