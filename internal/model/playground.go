package model

import "time"

// Visibility controls who can see a playground.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Playground is a user-created project record: a name, a description, up to
// five tags, and a public/private visibility flag.
//
// CreatorID is set exactly once at creation and never reassigned — only the
// creator may delete the record, and no update endpoint exists. The ID is an
// auto-increment integer assigned by the database on insert.
type Playground struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Visibility  Visibility `json:"visibility"`
	Tags        []string   `json:"tags"`
	IsFeatured  bool       `json:"isFeatured"`
	CreatorID   string     `json:"creatorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// MemberRole is the role a user holds within a playground.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// PlaygroundMember links a user to a playground with a role. A user may hold
// at most one membership per playground (unique on user_id + playground_id).
//
// The table exists in the schema but no route uses it yet — collaborative
// access is out of scope until the role semantics are decided.
type PlaygroundMember struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"userId"`
	PlaygroundID int64      `json:"playgroundId"`
	Role         MemberRole `json:"role"`
	JoinedAt     time.Time  `json:"joinedAt"`
}
