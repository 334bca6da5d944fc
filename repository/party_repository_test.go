package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lllpei/ofacpartyapi/database"
	"github.com/lllpei/ofacpartyapi/models"
)

var fixtureDDL = []string{
	`CREATE TABLE ofac_sanctioned_party (
		party_id INTEGER PRIMARY KEY,
		party_type_cd TEXT NOT NULL,
		remarks TEXT
	)`,
	`CREATE TABLE ofac_party_name (
		party_id INTEGER NOT NULL,
		name_text TEXT NOT NULL,
		name_type_cd TEXT NOT NULL,
		is_primary_flg INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE ofac_party_attribute (
		party_id INTEGER NOT NULL,
		attribute_type_cd TEXT NOT NULL,
		attribute_value TEXT NOT NULL
	)`,
	`CREATE TABLE ofac_party_address (
		party_id INTEGER NOT NULL,
		address_line TEXT,
		city TEXT,
		postal_code TEXT,
		country_cd TEXT
	)`,
	`CREATE TABLE ofac_party_list_link (
		party_id INTEGER NOT NULL,
		list_cd TEXT NOT NULL
	)`,
	`CREATE TABLE ofac_party_program_link (
		party_id INTEGER NOT NULL,
		program_cd TEXT NOT NULL
	)`,
	`CREATE TABLE ofac_code_master (
		code_id TEXT PRIMARY KEY,
		code_value TEXT NOT NULL
	)`,
}

func strPtr(s string) *string { return &s }

// setupTestDB creates a seeded sanctions database in a temp dir and returns
// a repository pointing at it.
func setupTestDB(t *testing.T) *PartyRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "ofac_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, ddl := range fixtureDDL {
		require.NoError(t, db.Exec(ddl).Error)
	}

	codes := []models.CodeMaster{
		{CodeID: "LIST_SDN", CodeValue: "SDN"},
		{CodeID: "LIST_NONSDN", CodeValue: "Non-SDN"},
		{CodeID: "PRG_IRAN", CodeValue: "IRAN"},
		{CodeID: "PRG_SYRIA", CodeValue: "SYRIA"},
		{CodeID: "CTRY_JP", CodeValue: "Japan"},
		{CodeID: "CTRY_IR", CodeValue: "Iran"},
	}
	require.NoError(t, db.Create(&codes).Error)

	parties := []models.SanctionedParty{
		{PartyID: 4639, PartyTypeCd: "Entity"},
		{PartyID: 5001, PartyTypeCd: "Entity", Remarks: strPtr("front company")},
		{PartyID: 6002, PartyTypeCd: "Entity"},
	}
	require.NoError(t, db.Create(&parties).Error)

	names := []models.PartyName{
		{PartyID: 4639, NameText: "Example Corp", NameTypeCd: "FORMAL", IsPrimaryFlg: 1},
		{PartyID: 4639, NameText: "Example Co", NameTypeCd: "A.K.A.", IsPrimaryFlg: 0},
		{PartyID: 5001, NameText: "Acme Corporation", NameTypeCd: "FORMAL", IsPrimaryFlg: 1},
		{PartyID: 5001, NameText: "Blue Sky Trading", NameTypeCd: "aka", IsPrimaryFlg: 0},
		{PartyID: 6002, NameText: "Zed Holdings", NameTypeCd: "FORMAL", IsPrimaryFlg: 1},
		{PartyID: 6002, NameText: "Corp Shadow", NameTypeCd: "a.k.a.", IsPrimaryFlg: 0},
		// party 7003 has no canonical name row and must resolve as not found
		{PartyID: 7003, NameText: "Orphan Corp", NameTypeCd: "aka", IsPrimaryFlg: 0},
	}
	require.NoError(t, db.Create(&names).Error)

	attrs := []models.PartyAttribute{
		{PartyID: 4639, AttributeTypeCd: "Website", AttributeValue: "https://example.com"},
		{PartyID: 4639, AttributeTypeCd: "Secondary sanctions risk:", AttributeValue: "not surfaced"},
	}
	require.NoError(t, db.Create(&attrs).Error)

	addresses := []models.PartyAddress{
		{PartyID: 4639, AddressLine: strPtr("1-2-3 Chiyoda"), City: strPtr("Tokyo"), PostalCode: strPtr("100-0001"), CountryCd: strPtr("CTRY_JP")},
		{PartyID: 5001, AddressLine: strPtr("12 Azadi St"), City: strPtr("Tehran"), CountryCd: strPtr("CTRY_IR")},
		{PartyID: 6002, AddressLine: strPtr("Corp Plaza 9"), City: strPtr("Paris")}, // no country code on purpose
	}
	require.NoError(t, db.Create(&addresses).Error)

	listLinks := []models.PartyListLink{
		{PartyID: 4639, ListCd: "LIST_SDN"},
		{PartyID: 5001, ListCd: "LIST_SDN"},
		{PartyID: 6002, ListCd: "LIST_SDN"},
	}
	require.NoError(t, db.Create(&listLinks).Error)

	programLinks := []models.PartyProgramLink{
		{PartyID: 4639, ProgramCd: "PRG_IRAN"},
		{PartyID: 4639, ProgramCd: "PRG_SYRIA"},
		{PartyID: 5001, ProgramCd: "PRG_IRAN"},
	}
	require.NoError(t, db.Create(&programLinks).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	return NewPartyRepository(dbPath)
}

func TestGetPartyByID(t *testing.T) {
	repo := setupTestDB(t)

	detail, err := repo.GetPartyByID(4639)
	require.NoError(t, err)

	assert.Equal(t, "Entity", detail.Details.Type)
	assert.Equal(t, "Example Corp", detail.Details.EntityName)
	assert.Equal(t, "SDN", detail.Details.List)
	assert.Equal(t, "IRAN; SYRIA", detail.Details.Program)
	assert.Equal(t, "", detail.Details.Remarks)

	// the attribute allow-list drops everything but Website here
	require.Len(t, detail.Identifications, 1)
	assert.Equal(t, "Website", detail.Identifications[0].Type)
	assert.Equal(t, "https://example.com", detail.Identifications[0].IDInformation)

	require.Len(t, detail.Aliases, 1)
	assert.Equal(t, models.AliasEntry{Type: "a.k.a.", Category: "weak", Name: "Example Co"}, detail.Aliases[0])

	require.Len(t, detail.Addresses, 1)
	assert.Equal(t, models.AddressEntry{
		Address:       "1-2-3 Chiyoda",
		City:          "Tokyo",
		StateProvince: "",
		PostalCode:    "100-0001",
		Country:       "Japan",
	}, detail.Addresses[0])
}

func TestGetPartyByIDRemarksAndEmptySections(t *testing.T) {
	repo := setupTestDB(t)

	detail, err := repo.GetPartyByID(5001)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corporation", detail.Details.EntityName)
	assert.Equal(t, "IRAN", detail.Details.Program) // single program, no separator
	assert.Equal(t, "front company", detail.Details.Remarks)
	assert.Empty(t, detail.Identifications)
	require.Len(t, detail.Aliases, 1)
	assert.Equal(t, "Blue Sky Trading", detail.Aliases[0].Name)
}

func TestGetPartyByIDMissingCountryCode(t *testing.T) {
	repo := setupTestDB(t)

	detail, err := repo.GetPartyByID(6002)
	require.NoError(t, err)
	require.Len(t, detail.Addresses, 1)
	assert.Equal(t, "", detail.Addresses[0].Country)
}

func TestGetPartyByIDNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetPartyByID(999999)
	assert.ErrorIs(t, err, ErrPartyNotFound)

	// aka rows without a canonical name do not make a party exist
	_, err = repo.GetPartyByID(7003)
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestGetPartyByIDStoreUnavailable(t *testing.T) {
	repo := NewPartyRepository(filepath.Join(t.TempDir(), "does_not_exist.db"))

	_, err := repo.GetPartyByID(4639)
	assert.ErrorIs(t, err, database.ErrUnavailable)
}

func TestSearchPartiesNameScope(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeName, Limit: 100})
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "Acme Corporation", hits[0].EntityName)
	assert.Equal(t, "Example Corp", hits[1].EntityName)
	for _, h := range hits {
		assert.Equal(t, "name", h.MatchedField)
	}
	assert.Equal(t, int64(4639), hits[1].PartyID)
	assert.Equal(t, "SDN", hits[1].List)
	assert.Equal(t, "IRAN; SYRIA", hits[1].Program)
}

func TestSearchPartiesAliasScope(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeAlias, Limit: 100})
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "alias", hits[0].MatchedField)
	assert.Equal(t, "Corp Shadow", hits[0].MatchedText)
	assert.Equal(t, "Zed Holdings", hits[0].EntityName)
}

func TestSearchPartiesAddressScope(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "chiyoda", Scope: models.ScopeAddress, Limit: 100})
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "address", hits[0].MatchedField)
	assert.Equal(t, "Example Corp", hits[0].EntityName)
	assert.Contains(t, hits[0].MatchedText, "1-2-3 Chiyoda")
	assert.Contains(t, hits[0].MatchedText, "Tokyo")
}

func TestSearchPartiesAllScopeMultipleContexts(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeAll, Limit: 100})
	require.NoError(t, err)

	// party 6002 matches on both its alias and its address line, so it must
	// appear once per match context
	var zedFields []string
	for _, h := range hits {
		if h.PartyID == 6002 {
			zedFields = append(zedFields, h.MatchedField)
		}
	}
	assert.ElementsMatch(t, []string{"alias", "address"}, zedFields)

	// ordering is by canonical name ascending
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].EntityName, hits[i].EntityName)
	}
}

func TestSearchPartiesCountryFilter(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeName, Country: "japan", Limit: 100})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Example Corp", hits[0].EntityName)

	// the raw country code matches too
	hits, err = repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeName, Country: "ctry_jp", Limit: 100})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Example Corp", hits[0].EntityName)
}

func TestSearchPartiesCityFilter(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeName, City: "TOKYO", Limit: 100})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Example Corp", hits[0].EntityName)

	// city matching is exact, not substring
	hits, err = repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeName, City: "Tok", Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchPartiesLimitClamp(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeAll, Limit: 0})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeAll, Limit: 5000})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hits), models.MaxSearchLimit)
}

func TestSearchPartiesValidation(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.SearchParties(models.SearchParams{Query: "a", Scope: models.ScopeAll, Limit: 100})
	assert.ErrorIs(t, err, ErrQueryTooShort)

	_, err = repo.SearchParties(models.SearchParams{Query: "corp", Scope: "bogus", Limit: 100})
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestSearchPartiesNoMatchesIsEmptyNotError(t *testing.T) {
	repo := setupTestDB(t)

	hits, err := repo.SearchParties(models.SearchParams{Query: "zzzzzz", Scope: models.ScopeAll, Limit: 100})
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestSearchPartiesIdempotent(t *testing.T) {
	repo := setupTestDB(t)

	params := models.SearchParams{Query: "corp", Scope: models.ScopeAll, Limit: 100}
	first, err := repo.SearchParties(params)
	require.NoError(t, err)
	second, err := repo.SearchParties(params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchPartiesStoreUnavailable(t *testing.T) {
	repo := NewPartyRepository(filepath.Join(t.TempDir(), "does_not_exist.db"))

	_, err := repo.SearchParties(models.SearchParams{Query: "corp", Scope: models.ScopeAll, Limit: 100})
	assert.ErrorIs(t, err, database.ErrUnavailable)
}

// TestResolveMultiListParty pins the grouping behavior when a party carries
// more than one list membership: the head query yields one row per list and
// the resolver returns the first, ordered by list value. The dataset is
// assumed single-list per party; this documents what happens if it is not.
func TestResolveMultiListParty(t *testing.T) {
	repo := setupTestDB(t)

	db, err := gorm.Open(sqlite.Open(repo.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.PartyListLink{PartyID: 4639, ListCd: "LIST_NONSDN"}).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	detail, err := repo.GetPartyByID(4639)
	require.NoError(t, err)
	assert.Equal(t, "Non-SDN", detail.Details.List)
}
