package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a new UUID when the caller did not set one
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MaxMessageLength is the maximum length of a chirp message or comment
const MaxMessageLength = 255

// User is a registered account
type User struct {
	BaseModel
	Name         string  `gorm:"type:varchar(255);not null"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string  `gorm:"type:varchar(255);not null;column:password_hash"`
	AvatarPath   *string `gorm:"type:varchar(500);column:avatar_path"`
	AvatarType   *string `gorm:"type:varchar(100);column:avatar_content_type"`
}

// Chirp is a short post
type Chirp struct {
	BaseModel
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message   string     `gorm:"type:varchar(255);not null"`
	Reactions []Reaction `gorm:"foreignKey:ChirpID;constraint:OnDelete:CASCADE"`
	Comments  []Comment  `gorm:"foreignKey:ChirpID;constraint:OnDelete:CASCADE"`
}

// IsEdited reports whether the chirp was updated after creation.
// Timestamps are compared at second precision, the precision the API renders.
func (c *Chirp) IsEdited() bool {
	return !c.UpdatedAt.Truncate(time.Second).Equal(c.CreatedAt.Truncate(time.Second))
}

// ReactionType is an emoji reaction kind
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionSad   ReactionType = "sad"
	ReactionWow   ReactionType = "wow"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists the supported reaction types in display order
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionSad, ReactionWow, ReactionAngry}

// IsValidReactionType checks if the given string is a supported ReactionType
func IsValidReactionType(t string) bool {
	for _, rt := range ReactionTypes {
		if string(rt) == t {
			return true
		}
	}
	return false
}

// Reaction is one user's reaction to a chirp. A user holds at most one per chirp.
type Reaction struct {
	BaseModel
	ChirpID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_chirp_user"`
	Chirp   *Chirp       `gorm:"foreignKey:ChirpID;constraint:OnDelete:CASCADE"`
	UserID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_chirp_user;index"`
	User    *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Type    ReactionType `gorm:"type:varchar(20);not null"`
}

// Comment is a reply on a chirp
type Comment struct {
	BaseModel
	ChirpID uuid.UUID `gorm:"type:uuid;not null;index"`
	Chirp   *Chirp    `gorm:"foreignKey:ChirpID;constraint:OnDelete:CASCADE"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	User    *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Content string    `gorm:"type:varchar(255);not null"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeReaction NotificationType = "reaction"
	NotificationTypeComment  NotificationType = "comment"
)

// Notification tells a chirp owner that someone else reacted or commented
type Notification struct {
	BaseModel
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	User         *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	NotifierID   *uuid.UUID       `gorm:"type:uuid;index"`
	Notifier     *User            `gorm:"foreignKey:NotifierID;constraint:OnDelete:CASCADE"`
	Type         NotificationType `gorm:"type:varchar(50);not null"`
	ChirpID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Chirp        *Chirp           `gorm:"foreignKey:ChirpID;constraint:OnDelete:CASCADE"`
	ReactionType *ReactionType    `gorm:"type:varchar(20);column:reaction_type"`
	IsRead       bool             `gorm:"column:is_read;not null;default:false;index"`
	ReadAt       *time.Time
}
