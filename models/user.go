package models

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}

type Credentials struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	Username string
	Role     Role
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
