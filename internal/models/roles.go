package models

// Account roles. New accounts default to RoleCustomer; the other roles are
// assigned by back-office tooling outside this service.
const (
	RoleCustomer = "Customer"
	RoleManager  = "Manager"
	RoleAdmin    = "Admin"
)
