package organizer

import "time"

// Organizer owns events. Stored in "organizers".
type Organizer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Organizer) TableName() string {
	return "organizers"
}

// Response is the organizer view; the password hash never leaves the service.
type Response struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Organizer) ToResponse() Response {
	return Response{ID: o.ID, Username: o.Username, Email: o.Email, CreatedAt: o.CreatedAt}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	IP       string
}

type LoginInput struct {
	Email    string
	Password string
}
