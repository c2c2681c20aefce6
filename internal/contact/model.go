// Package contact stores contact-form submissions and serves the admin
// queries and mutations over them.
package contact

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"contactdesk/internal/common"
)

// Submission is one contact-form entry as persisted in the submissions collection.
type Submission struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	Name      string                  `bson:"name" json:"name"`
	Email     string                  `bson:"email" json:"email"`
	Phone     string                  `bson:"phone" json:"phone"`
	Message   string                  `bson:"message" json:"message"`
	Read      bool                    `bson:"read" json:"read"`
	Status    common.SubmissionStatus `bson:"status" json:"status"`
	IPAddress string                  `bson:"ipAddress" json:"ipAddress"`
	UserAgent string                  `bson:"userAgent" json:"userAgent"`
	CreatedAt time.Time               `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time               `bson:"updatedAt" json:"updatedAt"`
}

// SubmissionInput is what the public form posts
type SubmissionInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,contactemail,max=254"`
	Phone   string `json:"phone" validate:"max=50"`
	Message string `json:"message" validate:"required,max=5000"`
}

// RequestMeta is the provenance recorded with a new submission.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// SubmissionUpdate is the body of a generic admin update. Nil fields are left
// alone; set fields follow the same rules as SubmissionInput.
type SubmissionUpdate struct {
	Name    *string `json:"name,omitempty" validate:"omitnil,min=1,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitnil,contactemail,max=254"`
	Phone   *string `json:"phone,omitempty" validate:"omitnil,max=50"`
	Message *string `json:"message,omitempty" validate:"omitnil,min=1,max=5000"`
	Read    *bool   `json:"read,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// FieldChanges is a validated set of field assignments handed to the repository.
type FieldChanges struct {
	Name    *string
	Email   *string
	Phone   *string
	Message *string
	Read    *bool
	Status  *common.SubmissionStatus
}

func (c FieldChanges) IsEmpty() bool {
	return c.Name == nil && c.Email == nil && c.Phone == nil &&
		c.Message == nil && c.Read == nil && c.Status == nil
}

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByName      SortField = "name"
	SortByEmail     SortField = "email"
)

// ParseSortField falls back to createdAt for anything it does not know.
func ParseSortField(raw string) SortField {
	switch SortField(raw) {
	case SortByName:
		return SortByName
	case SortByEmail:
		return SortByEmail
	}
	return SortByCreatedAt
}

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ListQuery is the raw admin listing request
type ListQuery struct {
	Page      int
	PerPage   int
	Search    string
	Status    common.ReadFilter
	SortBy    SortField
	SortOrder string
}

// SubmissionFilter selects documents; the count and the page slice of one
// listing are computed from the same filter.
type SubmissionFilter struct {
	Search string
	Read   common.ReadFilter
}

type FindOptions struct {
	SortBy SortField
	Desc   bool
	Skip   int64
	Limit  int64
}

type Page struct {
	Items      []Submission `json:"items"`
	Page       int          `json:"page"`
	PerPage    int          `json:"perPage"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"totalPages"`
}

type Stats struct {
	Total  int64 `json:"total"`
	Today  int64 `json:"today"`
	Week   int64 `json:"week"`
	Month  int64 `json:"month"`
	Unread int64 `json:"unread"`
}
