package view

import (
	"github.com/rifathmfm/portfolio-api/internal/auth"
	"github.com/rifathmfm/portfolio-api/internal/content"
)

// Card is one rendered record plus the mutation affordances the viewer may
// use. Affordances depend only on session presence; the portfolio has a
// single admin and no per-record ownership.
type Card struct {
	Record    *content.Record `json:"record"`
	CanEdit   bool            `json:"canEdit"`
	CanDelete bool            `json:"canDelete"`
}

// CardList is the session-aware rendering of a collection.
type CardList struct {
	Collection string `json:"collection"`
	Loading    bool   `json:"loading"`
	Cards      []Card `json:"cards"`
	CanAdd     bool   `json:"canAdd"`
}

// BuildCardList assembles cards from the records, gating edit, delete and add
// affordances on the session. Anonymous viewers get read-only cards.
func BuildCardList(collection string, records []*content.Record, loading bool, sess auth.Session) CardList {
	editable := sess.Present()
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, Card{Record: r, CanEdit: editable, CanDelete: editable})
	}
	return CardList{
		Collection: collection,
		Loading:    loading,
		Cards:      cards,
		CanAdd:     editable,
	}
}
