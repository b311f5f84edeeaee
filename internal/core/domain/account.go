package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Account models a registered actor, either a learner or a course author.
// User and admin accounts live in separate collections; usernames are unique
// within each role's collection.
type Account struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	ProfilePhoto string   `json:"profilePhoto"`
	Bio          string   `json:"bio"`
	Role         string   `json:"role"`
	// PurchasedCourses holds course ids owned by a user account. Always
	// empty for admins.
	PurchasedCourses []string `json:"purchasedCourses,omitempty"`
}
