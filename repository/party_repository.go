package repository

import (
	"errors"
	"fmt"
	"log"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/lllpei/ofacpartyapi/database"
	"github.com/lllpei/ofacpartyapi/models"
)

// ErrPartyNotFound indicates a party id with no canonical name row. A party
// without a primary FORMAL name is treated as non-existent regardless of
// rows in other tables.
var ErrPartyNotFound = errors.New("party not found")

// ErrInvalidScope indicates a search scope outside all/name/alias/address.
var ErrInvalidScope = errors.New("invalid search scope")

// ErrQueryTooShort indicates a trimmed search query under two characters.
var ErrQueryTooShort = errors.New("search query too short")

// identificationTypeCds is the fixed allow-list of attribute types surfaced
// as identifications.
var identificationTypeCds = []string{"Website", "Additional Sanctions Information -"}

const canonicalNamePredicate = "is_primary_flg = 1 AND name_type_cd = 'FORMAL'"

// canonicalNameJoin joins the canonical display name row of a party aliased p.
const canonicalNameJoin = "ofac_party_name n ON p.party_id = n.party_id AND n.is_primary_flg = 1 AND n.name_type_cd = 'FORMAL'"

// akaPredicate matches alias name rows case-insensitively with dots
// stripped, so 'AKA', 'a.k.a.' and 'aka' all qualify.
const akaPredicate = "REPLACE(LOWER(name_type_cd), '.', '') = 'aka'"

// addressTextExpr is the searchable address text: line, city and raw
// country code joined with single spaces.
const addressTextExpr = "COALESCE(address_line, '') || ' ' || COALESCE(city, '') || ' ' || COALESCE(country_cd, '')"

// PartyRepository handles read access to the sanctions database. Each
// operation opens its own read-only connection and closes it before
// returning; no state is shared across calls beyond the file path.
type PartyRepository struct {
	DBPath string
}

// NewPartyRepository creates a new instance of PartyRepository
func NewPartyRepository(dbPath string) *PartyRepository {
	return &PartyRepository{DBPath: dbPath}
}

type partyHeadRow struct {
	PartyType     string  `gorm:"column:party_type"`
	EntityName    string  `gorm:"column:entity_name"`
	ListValue     string  `gorm:"column:list_value"`
	ProgramValues *string `gorm:"column:program_values"`
	Remarks       string  `gorm:"column:remarks"`
}

type addressRow struct {
	AddressLine *string `gorm:"column:address_line"`
	City        *string `gorm:"column:city"`
	PostalCode  *string `gorm:"column:postal_code"`
	Country     *string `gorm:"column:country"`
}

// GetPartyByID resolves a single party into its detail record. It returns
// ErrPartyNotFound when the id has no canonical name row and
// database.ErrUnavailable when the backing file is missing.
func (r *PartyRepository) GetPartyByID(partyID int64) (*models.PartyDetail, error) {
	db, err := database.Open(r.DBPath)
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	head, err := r.getPartyHead(db, partyID)
	if err != nil {
		return nil, err
	}

	identifications, err := r.listIdentifications(db, partyID)
	if err != nil {
		return nil, err
	}
	aliases, err := r.listAliases(db, partyID)
	if err != nil {
		return nil, err
	}
	addresses, err := r.listAddresses(db, partyID)
	if err != nil {
		return nil, err
	}

	detail := &models.PartyDetail{
		Details: models.PartyDetails{
			Type:       head.PartyType,
			EntityName: head.EntityName,
			List:       head.ListValue,
			Program:    derefOrEmpty(head.ProgramValues),
			Remarks:    head.Remarks,
		},
		Identifications: identifications,
		Aliases:         aliases,
		Addresses:       addresses,
	}
	return detail, nil
}

// getPartyHead runs the canonical-name join with list and program
// translation. More than one list link yields one row per list; the dataset
// is expected to hold a single list per party, and the first row (lowest
// list value) wins.
func (r *PartyRepository) getPartyHead(db *gorm.DB, partyID int64) (*partyHeadRow, error) {
	queryBuilder := database.Builder.Select(
		"p.party_type_cd AS party_type",
		"n.name_text AS entity_name",
		"cm_list.code_value AS list_value",
		"GROUP_CONCAT(cm_prog.code_value, '; ') AS program_values",
		"COALESCE(p.remarks, '') AS remarks",
	).
		From("ofac_sanctioned_party p").
		Join(canonicalNameJoin).
		Join("ofac_party_list_link ll ON p.party_id = ll.party_id").
		Join("ofac_code_master cm_list ON ll.list_cd = cm_list.code_id").
		LeftJoin("ofac_party_program_link pl ON p.party_id = pl.party_id").
		LeftJoin("ofac_code_master cm_prog ON pl.program_cd = cm_prog.code_id").
		Where(sq.Eq{"p.party_id": partyID}).
		GroupBy("p.party_id", "cm_list.code_value").
		OrderBy("cm_list.code_value ASC")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for party head query: %w", err)
	}

	var rows []partyHeadRow
	if err := db.Raw(sqlStr, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query party head for ID %d: %w", partyID, err)
	}
	if len(rows) == 0 {
		return nil, ErrPartyNotFound
	}
	if len(rows) > 1 {
		log.Printf("Warning: party %d has %d list memberships, returning the first", partyID, len(rows))
	}
	return &rows[0], nil
}

func (r *PartyRepository) listIdentifications(db *gorm.DB, partyID int64) ([]models.Identification, error) {
	var attrs []models.PartyAttribute
	err := db.Model(&models.PartyAttribute{}).
		Where("party_id = ?", partyID).
		Where("attribute_type_cd IN ?", identificationTypeCds).
		Order("attribute_type_cd ASC, attribute_value ASC").
		Find(&attrs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list identifications for party %d: %w", partyID, err)
	}

	identifications := []models.Identification{}
	for _, a := range attrs {
		identifications = append(identifications, models.Identification{
			Type:          a.AttributeTypeCd,
			IDInformation: a.AttributeValue,
		})
	}
	return identifications, nil
}

func (r *PartyRepository) listAliases(db *gorm.DB, partyID int64) ([]models.AliasEntry, error) {
	var names []models.PartyName
	err := db.Model(&models.PartyName{}).
		Where("party_id = ?", partyID).
		Where(akaPredicate).
		Order("name_text ASC").
		Find(&names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases for party %d: %w", partyID, err)
	}

	aliases := []models.AliasEntry{}
	for _, n := range names {
		aliases = append(aliases, models.AliasEntry{
			Type:     "a.k.a.",
			Category: "weak",
			Name:     n.NameText,
		})
	}
	return aliases, nil
}

func (r *PartyRepository) listAddresses(db *gorm.DB, partyID int64) ([]models.AddressEntry, error) {
	var rows []addressRow
	err := db.Model(&models.PartyAddress{}).
		Select("ofac_party_address.address_line, ofac_party_address.city, ofac_party_address.postal_code, cm.code_value AS country").
		Joins("LEFT JOIN ofac_code_master cm ON ofac_party_address.country_cd = cm.code_id").
		Where("ofac_party_address.party_id = ?", partyID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for party %d: %w", partyID, err)
	}

	addresses := []models.AddressEntry{}
	for _, row := range rows {
		addresses = append(addresses, models.AddressEntry{
			Address:       derefOrEmpty(row.AddressLine),
			City:          derefOrEmpty(row.City),
			StateProvince: "",
			PostalCode:    derefOrEmpty(row.PostalCode),
			Country:       derefOrEmpty(row.Country),
		})
	}
	return addresses, nil
}

type searchHitRow struct {
	PartyID       int64   `gorm:"column:party_id"`
	MatchedField  string  `gorm:"column:matched_field"`
	MatchedText   string  `gorm:"column:matched_text"`
	EntityName    string  `gorm:"column:entity_name"`
	PartyType     string  `gorm:"column:party_type"`
	ListValue     string  `gorm:"column:list_value"`
	ProgramValues *string `gorm:"column:program_values"`
}

// SearchParties runs the unified search over canonical names, aliases and
// address text. A party appears once per distinct match context, so it can
// occur on several rows when it matches more than one field.
func (r *PartyRepository) SearchParties(params models.SearchParams) ([]models.SearchHit, error) {
	query := strings.TrimSpace(params.Query)
	if len([]rune(query)) < models.MinQueryLength {
		return nil, ErrQueryTooShort
	}
	scope := strings.ToLower(strings.TrimSpace(params.Scope))
	if scope == "" {
		scope = models.ScopeAll
	}
	if !models.IsValidScope(scope) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidScope, params.Scope)
	}
	limit := models.ClampLimit(params.Limit)
	// params.Fuzzy is reserved; substring matching applies regardless

	unionSQL, unionArgs, err := buildCandidateUnion(query, scope)
	if err != nil {
		return nil, err
	}

	queryBuilder := database.Builder.Select(
		"m.party_id",
		"m.matched_field",
		"m.matched_text",
		"n.name_text AS entity_name",
		"p.party_type_cd AS party_type",
		"cm_list.code_value AS list_value",
		"GROUP_CONCAT(cm_prog.code_value, '; ') AS program_values",
	).
		From(fmt.Sprintf("(%s) m", unionSQL)).
		Join("ofac_sanctioned_party p ON p.party_id = m.party_id").
		Join(canonicalNameJoin).
		Join("ofac_party_list_link ll ON ll.party_id = p.party_id").
		Join("ofac_code_master cm_list ON ll.list_cd = cm_list.code_id").
		LeftJoin("ofac_party_program_link pl ON pl.party_id = p.party_id").
		LeftJoin("ofac_code_master cm_prog ON pl.program_cd = cm_prog.code_id").
		GroupBy("m.party_id", "m.matched_field", "m.matched_text", "n.name_text", "p.party_type_cd", "cm_list.code_value").
		OrderBy("n.name_text ASC", "m.matched_field ASC", "m.matched_text ASC").
		Limit(uint64(limit))

	if country := strings.TrimSpace(params.Country); country != "" {
		queryBuilder = queryBuilder.Where(sq.Expr(
			`EXISTS (
				SELECT 1 FROM ofac_party_address fa
				LEFT JOIN ofac_code_master fcm ON fa.country_cd = fcm.code_id
				WHERE fa.party_id = m.party_id
				  AND (LOWER(fa.country_cd) = LOWER(?) OR LOWER(fcm.code_value) = LOWER(?))
			)`, country, country))
	}
	if city := strings.TrimSpace(params.City); city != "" {
		queryBuilder = queryBuilder.Where(sq.Expr(
			`EXISTS (
				SELECT 1 FROM ofac_party_address fa
				WHERE fa.party_id = m.party_id AND LOWER(fa.city) = LOWER(?)
			)`, city))
	}

	sqlStr, outerArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for search query: %w", err)
	}
	// placeholders inside the FROM subquery precede the outer WHERE ones
	allArgs := append(unionArgs, outerArgs...)

	db, err := database.Open(r.DBPath)
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	var rows []searchHitRow
	if err := db.Raw(sqlStr, allArgs...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to execute search query for '%s': %w", query, err)
	}

	hits := []models.SearchHit{}
	for _, row := range rows {
		hits = append(hits, models.SearchHit{
			PartyID:      row.PartyID,
			MatchedField: row.MatchedField,
			MatchedText:  row.MatchedText,
			EntityName:   row.EntityName,
			Type:         row.PartyType,
			List:         row.ListValue,
			Program:      derefOrEmpty(row.ProgramValues),
		})
	}
	return hits, nil
}

// buildCandidateUnion composes the labeled candidate sets for the requested
// scope. Each select yields (party_id, matched_field, matched_text); a scope
// other than "all" keeps only its own candidate set. Selects are combined in
// a fixed name/alias/address order so placeholder order stays deterministic.
func buildCandidateUnion(query, scope string) (string, []interface{}, error) {
	like := "%" + strings.ToLower(query) + "%"

	candidates := []sq.SelectBuilder{}
	if scope == models.ScopeAll || scope == models.ScopeName {
		candidates = append(candidates, database.Builder.Select(
			"party_id", "'name' AS matched_field", "name_text AS matched_text").
			From("ofac_party_name").
			Where(canonicalNamePredicate).
			Where("LOWER(name_text) LIKE ?", like))
	}
	if scope == models.ScopeAll || scope == models.ScopeAlias {
		candidates = append(candidates, database.Builder.Select(
			"party_id", "'alias' AS matched_field", "name_text AS matched_text").
			From("ofac_party_name").
			Where(akaPredicate).
			Where("LOWER(name_text) LIKE ?", like))
	}
	if scope == models.ScopeAll || scope == models.ScopeAddress {
		candidates = append(candidates, database.Builder.Select(
			"party_id", "'address' AS matched_field", addressTextExpr+" AS matched_text").
			From("ofac_party_address").
			Where("LOWER("+addressTextExpr+") LIKE ?", like))
	}

	parts := []string{}
	args := []interface{}{}
	for _, c := range candidates {
		sqlStr, candidateArgs, err := c.ToSql()
		if err != nil {
			return "", nil, fmt.Errorf("failed to build candidate select: %w", err)
		}
		parts = append(parts, sqlStr)
		args = append(args, candidateArgs...)
	}
	return strings.Join(parts, " UNION "), args, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
