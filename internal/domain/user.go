package domain

import "errors"

// Caller is the authenticated principal behind a request, taken from a
// verified bearer token.
type Caller struct {
	UserID string
	Phone  string
	Role   Role
}

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin may open and deactivate accounts and act on any account
	RoleAdmin Role = "admin"

	// RoleCustomer may only move money out of accounts they own
	RoleCustomer Role = "customer"

	// RoleOperator is read-only back office access
	RoleOperator Role = "operator"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleCustomer: true,
	RoleOperator: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageAccounts checks if the role can open or deactivate accounts
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}

// CanMoveMoney checks if the role can start transfers and payments
func (r Role) CanMoveMoney() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// CanAudit checks if the role may read any account and run ledger checks
func (r Role) CanAudit() bool {
	return r == RoleAdmin || r == RoleOperator
}

// OwnerScope returns the owner id a request must be checked against. Staff
// act on any account; operators still cannot move money.
func (c *Caller) OwnerScope() string {
	if c == nil || c.Role.CanAudit() {
		return ""
	}
	return c.UserID
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
