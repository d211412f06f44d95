package users

import (
	"time"

	"github.com/google/uuid"
)

// Role names used for authorization.
const (
	RoleAdmin           = "admin"
	RoleProjectManager  = "project_manager"
	RoleDeliveryManager = "delivery_manager"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProjectManager, RoleDeliveryManager:
		return true
	}
	return false
}

var seedNamespace = uuid.MustParse("6f1c1f4e-3a57-4d4b-9a0e-7c2f58e0d9b1")

// IDFor derives the stable user ID for a username.
func IDFor(username string) string {
	return uuid.NewSHA1(seedNamespace, []byte(username)).String()
}

// AdminUsername is the seeded administrator used as the dev-mode identity.
const AdminUsername = "samiksha"

// SeedUsers returns the directory of users created on first start.
func SeedUsers() []User {
	seed := []User{
		{Username: AdminUsername, Email: "samiksha@company.com", Role: RoleAdmin, Name: "Samiksha"},
		{Username: "sarah.chen", Email: "sarah.chen@company.com", Role: RoleProjectManager, Name: "Sarah Chen"},
		{Username: "david.miller", Email: "david.miller@company.com", Role: RoleDeliveryManager, Name: "David Miller"},
		{Username: "mike.rodriguez", Email: "mike.rodriguez@company.com", Role: RoleProjectManager, Name: "Mike Rodriguez"},
		{Username: "lisa.park", Email: "lisa.park@company.com", Role: RoleProjectManager, Name: "Lisa Park"},
	}
	for i := range seed {
		seed[i].ID = IDFor(seed[i].Username)
	}
	return seed
}
