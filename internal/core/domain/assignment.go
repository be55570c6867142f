package domain

import "time"

// NotProvided is stored for optional roster cells that were left blank.
const NotProvided = "Non renseigné"

// Assignment is an individual assignment record tied to one decree.
// The Decree* fields are denormalized from the owning decree so that public
// queries can filter and sort without a join.
type Assignment struct {
	ID              string    `json:"id"`
	DecreeID        string    `json:"decree_id"`
	LastName        string    `json:"last_name"`
	FirstNames      string    `json:"first_names"`
	BirthDate       time.Time `json:"birth_date"`
	BirthPlace      string    `json:"birth_place"`
	Diploma         string    `json:"diploma"`
	DiplomaPlace    string    `json:"diploma_place"`
	AssignmentPlace string    `json:"assignment_place"`
	DecreeNumber    string    `json:"decree_number"`
	CreatedAt       time.Time `json:"created_at"`

	DecreeStatus      DecreeStatus `json:"-"`
	DecreeTitle       string       `json:"-"`
	DecreePublishedAt *time.Time   `json:"-"`
	DecreePDFFile     string       `json:"-"`
}
