package handler

import (
	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/roster"
)

// urlBuilder turns a stored relative path into a public URL.
type urlBuilder interface {
	URL(path string) string
}

func toDecreeResponse(d *domain.Decree, urls urlBuilder) decreeResponse {
	return decreeResponse{
		ID:          d.ID,
		Number:      d.Number,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		ExcelURL:    urls.URL(d.ExcelFile),
		PDFURL:      urls.URL(d.PDFFile),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		PublishedAt: d.PublishedAt,
	}
}

// toAssignmentResponse renders one assignment. The decree block is only
// filled for public listings, where it carries the download link.
func toAssignmentResponse(a domain.Assignment, urls urlBuilder, withDecree bool) assignmentResponse {
	resp := assignmentResponse{
		ID:              a.ID,
		DecreeID:        a.DecreeID,
		LastName:        a.LastName,
		FirstNames:      a.FirstNames,
		BirthDate:       a.BirthDate.Format(roster.DateLayout),
		BirthPlace:      a.BirthPlace,
		Diploma:         a.Diploma,
		DiplomaPlace:    a.DiplomaPlace,
		AssignmentPlace: a.AssignmentPlace,
		DecreeNumber:    a.DecreeNumber,
	}
	if withDecree {
		resp.Decree = &assignmentDecree{
			Number:      a.DecreeNumber,
			Title:       a.DecreeTitle,
			PublishedAt: a.DecreePublishedAt,
			PDFURL:      urls.URL(a.DecreePDFFile),
		}
	}
	return resp
}

func toAssignmentResponses(items []domain.Assignment, urls urlBuilder, withDecree bool) []assignmentResponse {
	out := make([]assignmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAssignmentResponse(a, urls, withDecree))
	}
	return out
}
