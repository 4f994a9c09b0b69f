package console

// Role is a named permission group.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PermissionGrant allows a role an action on a resource.
type PermissionGrant struct {
	ID       string `json:"id"`
	RoleID   string `json:"role_id"`
	Resource string `json:"resource"` // "kb", "plugin", "feed", "provider", ...
	Action   string `json:"action"`   // "read", "write", "admin"
}

// GrantRequest is the request body for granting a permission.
type GrantRequest struct {
	RoleID   string `json:"role_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
