package models

import "time"

// Roles carried in the JWT role claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string      `json:"id" bson:"_id"`
	Email        string      `json:"email" bson:"email"`
	PasswordHash string      `json:"-" bson:"password"`
	Phone        string      `json:"phone" bson:"phone"`
	NRIC         string      `json:"nric" bson:"nric"`
	Role         string      `json:"role" bson:"role"`
	Profile      ProfileData `json:"profile_data" bson:"profile_data"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
}

// Flatten returns the user for the admin listing: profile fields hoisted to
// the top level, password omitted.
func (u *User) Flatten() map[string]interface{} {
	out := map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
		"phone": u.Phone,
		"nric":  u.NRIC,
		"role":  u.Role,
	}
	for k, v := range u.Profile {
		out[k] = v
	}
	return out
}

type SignupRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	NRIC           string `json:"nric"`
	Name           string `json:"name"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SignupRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}

	return errors
}

func (r *LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type UpdateProfileRequest struct {
	UserID  string                 `json:"userId"`
	Updates map[string]interface{} `json:"updates"`
}
