package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can author posts and comments.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Username  string    `gorm:"not null;uniqueIndex;size:30" json:"username"`
	Email     string    `gorm:"not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Post is a blog entry. Comments and likes live in their own tables and are
// joined on read.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Title     string    `gorm:"not null;size:100" json:"title"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	Tags      []string  `gorm:"serializer:json;type:text" json:"tags"`
	Image     *string   `json:"image,omitempty"`
	AuthorID  string    `gorm:"not null;index;size:36" json:"author"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment belongs to exactly one post. Insertion order is creation order.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Content   string    `gorm:"not null;type:text" json:"content"`
	AuthorID  string    `gorm:"not null;index;size:36" json:"author"`
	PostID    string    `gorm:"not null;index;size:36" json:"post"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostLike records that a user likes a post. The composite primary key keeps
// a post's like set free of duplicates.
type PostLike struct {
	PostID    string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time `gorm:"index"`
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &PostLike{}}
}

// NewID returns a time-ordered identifier, so sorting by ID follows creation
// order even when timestamps collide.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// IsValidID reports whether s is a well-formed identifier.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
