package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lllpei/ofacpartyapi/database"
	"github.com/lllpei/ofacpartyapi/models"
	"github.com/lllpei/ofacpartyapi/repository"
)

type PartyHandler struct {
	Repo repository.PartyRepositoryInterface
}

// GetParty handles GET /ofacParty?partyId=N
func (ph *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("partyId")
	log.Printf("party request received: partyId=%s", idStr)

	partyID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || partyID < 0 {
		log.Printf("Warning: invalid partyId parameter: %q", idStr)
		writeFailure(w, http.StatusBadRequest, "partyId must be a numeric value")
		return
	}

	detail, err := ph.Repo.GetPartyByID(partyID)
	if err != nil {
		if errors.Is(err, repository.ErrPartyNotFound) {
			log.Printf("Warning: no party data found: party_id=%d", partyID)
			writeFailure(w, http.StatusNotFound, fmt.Sprintf("no data found for party_id=%d", partyID))
			return
		}
		if errors.Is(err, database.ErrUnavailable) {
			log.Printf("Error: database unavailable while resolving party %d: %v", partyID, err)
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Printf("Error resolving party %d: %v", partyID, err)
		writeFailure(w, http.StatusInternalServerError, "failed to retrieve party data")
		return
	}

	log.Printf("party response sent: party_id=%d", partyID)
	writeSuccess(w, detail)
}

// SearchParty handles GET /ofacParty/search. The legacy name= parameter is
// accepted as an alias for q; when used without an explicit scope the search
// is restricted to canonical names, matching the old endpoint's behavior.
func (ph *PartyHandler) SearchParty(w http.ResponseWriter, r *http.Request) {
	queryParams := r.URL.Query()

	q := queryParams.Get("q")
	scope := queryParams.Get("scope")
	if q == "" {
		if legacy := queryParams.Get("name"); legacy != "" {
			q = legacy
			if scope == "" {
				scope = models.ScopeName
			}
		}
	}
	log.Printf("party search request received: q=%q scope=%q", q, scope)

	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < models.MinQueryLength {
		log.Printf("Warning: invalid search query: %q", q)
		writeFailure(w, http.StatusBadRequest, "q must be at least 2 characters")
		return
	}

	if scope == "" {
		scope = models.ScopeAll
	}
	scope = strings.ToLower(scope)
	if !models.IsValidScope(scope) {
		log.Printf("Warning: invalid search scope: %q", scope)
		writeFailure(w, http.StatusBadRequest, "scope must be one of all, name, alias, address")
		return
	}

	limit := models.DefaultSearchLimit
	if limitStr := queryParams.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			log.Printf("Warning: invalid limit parameter: %q", limitStr)
			writeFailure(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		// out-of-range limits are clamped by the repository, not rejected
		limit = parsed
	}

	fuzzy := false
	if fuzzyStr := queryParams.Get("fuzzy"); fuzzyStr != "" {
		parsed, err := strconv.ParseBool(fuzzyStr)
		if err != nil {
			log.Printf("Warning: invalid fuzzy parameter: %q", fuzzyStr)
			writeFailure(w, http.StatusBadRequest, "fuzzy must be a boolean")
			return
		}
		fuzzy = parsed
	}

	params := models.SearchParams{
		Query:   q,
		Scope:   scope,
		Country: queryParams.Get("country"),
		City:    queryParams.Get("city"),
		Limit:   limit,
		Fuzzy:   fuzzy,
	}

	hits, err := ph.Repo.SearchParties(params)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidScope) || errors.Is(err, repository.ErrQueryTooShort) {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, database.ErrUnavailable) {
			log.Printf("Error: database unavailable while searching %q: %v", q, err)
			writeFailure(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Printf("Error searching parties with query %q: %v", q, err)
		writeFailure(w, http.StatusInternalServerError, "failed to search parties")
		return
	}
	if hits == nil {
		hits = []models.SearchHit{}
	}

	log.Printf("party search response sent: q=%q hits=%d", q, len(hits))
	writeSuccess(w, hits)
}
