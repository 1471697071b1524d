package repositories

import (
	"strings"

	"movein-backend/config"
	"movein-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

var cardSearchFields = []string{
	"company_name", "business_type", "contact_person", "contact_email",
	"contact_phone", "floor_number", "room_number", "owner_name", "owner_email",
}

type cardDocument struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	CompanyName   string `json:"company_name"`
	BusinessType  string `json:"business_type"`
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
	FloorNumber   string `json:"floor_number"`
	RoomNumber    string `json:"room_number"`
	MoveInDate    string `json:"move_in_date"`
	Status        string `json:"status"`
	OwnerName     string `json:"owner_name,omitempty"`
	OwnerEmail    string `json:"owner_email,omitempty"`
}

func toCardDocument(card models.MoveInCard) cardDocument {
	doc := cardDocument{
		ID:            card.ID.String(),
		UserID:        card.UserID.String(),
		CompanyName:   card.CompanyName,
		BusinessType:  card.BusinessType,
		ContactPerson: card.ContactPerson,
		ContactEmail:  card.ContactEmail,
		ContactPhone:  card.ContactPhone,
		FloorNumber:   card.FloorNumber,
		RoomNumber:    card.RoomNumber,
		MoveInDate:    card.MoveInDate.String(),
		Status:        string(card.Status),
	}
	if card.Profile != nil {
		doc.OwnerName = card.Profile.Name
		doc.OwnerEmail = card.Profile.Email
	}
	return doc
}

func (r *BleveRepository) IndexCard(card models.MoveInCard) error {
	if err := r.indexer.IndexDocument(CardsIndex, card.ID.String(), toCardDocument(card)); err != nil {
		config.Logger.Error("Failed to index move-in card", zap.String("card_id", card.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

func (r *BleveRepository) IndexExistingCards(cards []models.MoveInCard) error {
	docs := make(map[string]interface{}, len(cards))
	for _, c := range cards {
		docs[c.ID.String()] = toCardDocument(c)
	}
	return r.indexer.BulkIndexDocuments(CardsIndex, docs)
}

func (r *BleveRepository) DeleteCard(cardID string) error {
	return r.indexer.DeleteDocument(CardsIndex, cardID)
}

// SearchCards matches the text fields of a card, optionally limited to one status.
func (r *BleveRepository) SearchCards(q, status string) (*SearchResponse, error) {
	q = strings.TrimSpace(q)
	status = strings.TrimSpace(status)

	var clauses []query.Query
	if q != "" {
		clauses = append(clauses, textQuery(q, cardSearchFields))
	} else {
		clauses = append(clauses, bleve.NewMatchAllQuery())
	}
	if status != "" && status != "all" {
		term := bleve.NewTermQuery(strings.ToLower(status))
		term.SetField("status")
		clauses = append(clauses, term)
	}

	result, err := r.indexer.SearchIndex(CardsIndex, bleve.NewConjunctionQuery(clauses...), defaultSearchSize)
	if err != nil {
		return nil, err
	}
	return toResponse(result), nil
}
