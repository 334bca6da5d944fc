package repository

import (
	"github.com/lllpei/ofacpartyapi/models"
)

// PartyRepositoryInterface defines the read operations over the sanctions
// dataset. The dataset is externally owned; there are no write operations.
type PartyRepositoryInterface interface {
	GetPartyByID(partyID int64) (*models.PartyDetail, error)
	SearchParties(params models.SearchParams) ([]models.SearchHit, error)
}
