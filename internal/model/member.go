package model

import "time"

type Role string

const (
	RoleAdult Role = "adult"
	RoleChild Role = "child"
)

type Member struct {
	ID        int64     `json:"id"`
	FamilyID  int64     `json:"family_id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	PhotoPath string    `json:"photo_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
