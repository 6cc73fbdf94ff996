package partner

import (
	"context"

	"github.com/google/uuid"
)

// ContactType distinguishes the sources merged into the contact list
type ContactType string

const (
	ContactTypeCustomer ContactType = "customer"
	ContactTypeMember   ContactType = "member"
)

// IsValid reports whether the type is known
func (t ContactType) IsValid() bool {
	return t == ContactTypeCustomer || t == ContactTypeMember
}

// Contact is a read-only entry of the unified customer and team member list
type Contact struct {
	ID    uuid.UUID   `json:"id" db:"id"`
	Type  ContactType `json:"type" db:"type"`
	Name  string      `json:"name" db:"name"`
	Email string      `json:"email" db:"email"`
	Phone string      `json:"phone" db:"phone"`
}

// ContactQuery selects contacts. An empty Type returns both kinds.
type ContactQuery struct {
	Type   ContactType
	Search string
	Limit  int
}

// Normalize clamps the limit to 1..100, defaulting to 50
func (q ContactQuery) Normalize() ContactQuery {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return q
}

// ContactReader lists contacts of a tenant ordered by name
type ContactReader interface {
	ListContacts(ctx context.Context, tenantID uuid.UUID, q ContactQuery) ([]Contact, error)
}
