package models

// User is the identity-provider account as returned by the auth API.
// First and last name live in UserMetadata.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
}

func (u *User) FirstName() string { return metaString(u.UserMetadata, "first_name") }
func (u *User) LastName() string  { return metaString(u.UserMetadata, "last_name") }

// AppRole returns app_metadata.role, which only the backend can write.
func (u *User) AppRole() string { return metaString(u.AppMetadata, "role") }

func metaString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
