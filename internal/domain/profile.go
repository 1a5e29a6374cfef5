package domain

// Profile is the display identity rendered by the UI shell. It is always
// non-zero: when no remote record is available the resolver fills in a
// fallback or guest placeholder.
type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
}
