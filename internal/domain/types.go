package domain

// Role of an authenticated principal. Identity itself is issued externally;
// the core only trusts the role and owner ids carried by the token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgency   Role = "agency"
	RoleAdmin    Role = "admin"
	// RoleSystem is used by collaborators calling back into the core
	// (payment capture confirmation, scheduled progress transitions).
	RoleSystem Role = "system"
)

// Actor carries authenticated principal info for guard checks.
type Actor struct {
	UserID   int64 `json:"user_id"`
	AgencyID int64 `json:"agency_id,omitempty"`
	Role     Role  `json:"role"`
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total,omitempty"`
}
