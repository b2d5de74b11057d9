package models

import "time"

// Profile roles.
const (
	RoleUser   = "user"
	RoleExpert = "expert"
	RoleOwner  = "owner"
)

const (
	// AdminUsername is the reserved operator account name. The admin flag
	// is derived from it exactly once, at account creation or bootstrap.
	AdminUsername = "modamadmin"

	// AdminNickname is the display name shown for admin-authored content.
	AdminNickname = "모담 관리자"

	// AnonymousNickname labels authors who have no profile nickname.
	AnonymousNickname = "익명"
)

// Profile is the public face of an account: what posts, comments, and
// reviews display.
type Profile struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Nickname  string    `gorm:"not null" json:"nickname"`
	Role      string    `gorm:"not null;default:user" json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role names a known profile role.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleExpert, RoleOwner:
		return true
	}
	return false
}

// DisplayNickname resolves what to show as the author name. Admins always
// appear under the fixed admin label regardless of their stored nickname.
func (p *Profile) DisplayNickname() string {
	if p == nil || p.Nickname == "" {
		return AnonymousNickname
	}
	if p.IsAdmin {
		return AdminNickname
	}
	return p.Nickname
}
