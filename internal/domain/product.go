package domain

import (
	"strings"
	"time"
)

// Product is an item sold to customers.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       Money      `json:"price"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// Key returns the identity used by the resource cache.
func (p Product) Key() string { return p.ID }

// ProductInput is the body for creating or updating a product.
type ProductInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       Money      `json:"price"`
	Active      bool       `json:"active"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// Validate checks the mandatory fields before any request is sent.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ErrValidation{Message: "Nome do produto é obrigatório."}
	}
	if in.Price <= 0 {
		return &ErrValidation{Message: "Preço deve ser maior que zero."}
	}
	return nil
}

// UpdatePayload builds the whitelisted update from a full record.
func (p Product) UpdatePayload() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Active:      p.Active,
		DeletedAt:   p.DeletedAt,
	}
}
