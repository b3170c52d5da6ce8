package domain

import (
	"strings"
	"time"
)

// ============================================================
// Customer
// ============================================================

// CustomerStatus is the soft-delete marker of a customer.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "ACTIVE"
	CustomerInactive CustomerStatus = "INACTIVE"
)

// Person holds the contact data nested in a customer record.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Customer is a buyer registered by the staff.
type Customer struct {
	ID                  string         `json:"id"`
	Person              Person         `json:"person"`
	City                string         `json:"city,omitempty"`
	AssignedSalesperson string         `json:"assignedSalesperson,omitempty"`
	Status              CustomerStatus `json:"status"`
	Products            []Product      `json:"products"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	DeletedAt           *time.Time     `json:"deletedAt,omitempty"`
}

// Key returns the identity used by the resource cache.
func (c Customer) Key() string { return c.ID }

// IsActive reports whether the customer is listed as active.
func (c Customer) IsActive() bool { return c.Status != CustomerInactive }

// HasProduct reports whether productID is associated with the customer.
func (c Customer) HasProduct(productID string) bool {
	for _, p := range c.Products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// NewCustomer is the body for creating a customer.
type NewCustomer struct {
	Person              Person   `json:"person"`
	City                string   `json:"city,omitempty"`
	AssignedSalesperson string   `json:"assignedSalesperson,omitempty"`
	ProductIDs          []string `json:"productIds"`
}

// Validate checks the mandatory fields before any request is sent.
func (n NewCustomer) Validate() error {
	if strings.TrimSpace(n.Person.Name) == "" || strings.TrimSpace(n.Person.Email) == "" || len(n.ProductIDs) == 0 {
		return &ErrValidation{Message: "Nome, email e um produto inicial são obrigatórios."}
	}
	return nil
}

// CustomerUpdate is the whitelisted payload accepted by the backend update.
// DeletedAt is always sent so reactivation can clear it.
type CustomerUpdate struct {
	Person              Person         `json:"person"`
	City                string         `json:"city,omitempty"`
	AssignedSalesperson string         `json:"assignedSalesperson,omitempty"`
	Status              CustomerStatus `json:"status"`
	DeletedAt           *time.Time     `json:"deletedAt"`
}

// Validate checks the mandatory fields of an update.
func (u CustomerUpdate) Validate() error {
	if strings.TrimSpace(u.Person.Name) == "" || strings.TrimSpace(u.Person.Email) == "" {
		return &ErrValidation{Message: "Nome e email são obrigatórios."}
	}
	if u.Status != CustomerActive && u.Status != CustomerInactive {
		return &ErrValidation{Field: "status", Message: "status must be ACTIVE or INACTIVE"}
	}
	return nil
}

// UpdatePayload builds the whitelisted update from a full record.
func (c Customer) UpdatePayload() CustomerUpdate {
	return CustomerUpdate{
		Person:              c.Person,
		City:                c.City,
		AssignedSalesperson: c.AssignedSalesperson,
		Status:              c.Status,
		DeletedAt:           c.DeletedAt,
	}
}

// ============================================================
// Customer <-> Product association
// ============================================================

// AssociationKind discriminates association actions.
type AssociationKind string

const (
	AssociationAdd     AssociationKind = "add"
	AssociationRemove  AssociationKind = "remove"
	AssociationReplace AssociationKind = "replace"
)

// AssociationAction changes the product links of a customer without
// touching either entity's own fields.
type AssociationAction struct {
	Action       AssociationKind `json:"action"`
	ProductIDs   []string        `json:"productIds,omitempty"`
	ProductID    string          `json:"productId,omitempty"`
	NewProductID string          `json:"newProductId,omitempty"`
}

// Validate checks that the identifiers required by the action are present.
func (a AssociationAction) Validate() error {
	switch a.Action {
	case AssociationAdd:
		if len(a.ProductIDs) == 0 {
			return &ErrValidation{Field: "productIds", Message: "at least one product id is required"}
		}
	case AssociationRemove:
		if a.ProductID == "" {
			return &ErrValidation{Field: "productId", Message: "product id is required"}
		}
	case AssociationReplace:
		if a.ProductID == "" || a.NewProductID == "" {
			return &ErrValidation{Field: "newProductId", Message: "product id and replacement are required"}
		}
		if a.ProductID == a.NewProductID {
			return &ErrValidation{Field: "newProductId", Message: "replacement must differ from the current product"}
		}
	default:
		return &ErrValidation{Field: "action", Message: "action must be add, remove or replace"}
	}
	return nil
}
