package services

import (
	"movein-backend/db/models"

	"github.com/google/uuid"
)

// ComplaintView is a complaint with the submitter and responding admin joined in.
type ComplaintView struct {
	models.Complaint
	Submitter *models.ProfileSummary `json:"submitter"`
	Responder *models.ProfileSummary `json:"responder"`
}

// ReferencedProfileIDs returns the distinct submitter and admin ids of complaints.
func ReferencedProfileIDs(complaints []models.Complaint) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(complaints))
	ids := make([]uuid.UUID, 0, len(complaints))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, c := range complaints {
		add(c.UserID)
		if c.AdminID != nil {
			add(*c.AdminID)
		}
	}
	return ids
}

// Enrich joins identities from profiles onto complaints as seen by viewerID.
// An anonymous complaint shows its submitter only to the submitter.
func Enrich(complaints []models.Complaint, profiles map[uuid.UUID]*models.Profile, viewerID uuid.UUID) []ComplaintView {
	views := make([]ComplaintView, len(complaints))
	for i, c := range complaints {
		views[i] = ComplaintView{Complaint: c}
		if !c.IsAnonymous || c.UserID == viewerID {
			views[i].Submitter = profiles[c.UserID].Summary()
		}
		if c.AdminID != nil {
			views[i].Responder = profiles[*c.AdminID].Summary()
		}
	}
	return views
}
