package models

// The ofac_* tables are an external contract owned by the list publisher's
// loader; this service only reads them. Table and column names must not be
// changed here.

// SanctionedParty corresponds to the 'ofac_sanctioned_party' table.
type SanctionedParty struct {
	PartyID     int64   `gorm:"column:party_id;primaryKey"`
	PartyTypeCd string  `gorm:"column:party_type_cd"`
	Remarks     *string `gorm:"column:remarks"`
}

func (SanctionedParty) TableName() string {
	return "ofac_sanctioned_party"
}

// PartyName corresponds to the 'ofac_party_name' table. Exactly one row per
// party carries is_primary_flg=1 with name_type_cd='FORMAL'; that row is the
// canonical display name.
type PartyName struct {
	PartyID      int64  `gorm:"column:party_id"`
	NameText     string `gorm:"column:name_text"`
	NameTypeCd   string `gorm:"column:name_type_cd"`
	IsPrimaryFlg int    `gorm:"column:is_primary_flg"`
}

func (PartyName) TableName() string {
	return "ofac_party_name"
}

// PartyAttribute corresponds to the 'ofac_party_attribute' table.
type PartyAttribute struct {
	PartyID         int64  `gorm:"column:party_id"`
	AttributeTypeCd string `gorm:"column:attribute_type_cd"`
	AttributeValue  string `gorm:"column:attribute_value"`
}

func (PartyAttribute) TableName() string {
	return "ofac_party_attribute"
}

// PartyAddress corresponds to the 'ofac_party_address' table. country_cd is
// a code master reference; the dataset does not model state/province.
type PartyAddress struct {
	PartyID     int64   `gorm:"column:party_id"`
	AddressLine *string `gorm:"column:address_line"`
	City        *string `gorm:"column:city"`
	PostalCode  *string `gorm:"column:postal_code"`
	CountryCd   *string `gorm:"column:country_cd"`
}

func (PartyAddress) TableName() string {
	return "ofac_party_address"
}

// PartyListLink corresponds to the 'ofac_party_list_link' table.
type PartyListLink struct {
	PartyID int64  `gorm:"column:party_id"`
	ListCd  string `gorm:"column:list_cd"`
}

func (PartyListLink) TableName() string {
	return "ofac_party_list_link"
}

// PartyProgramLink corresponds to the 'ofac_party_program_link' table.
type PartyProgramLink struct {
	PartyID   int64  `gorm:"column:party_id"`
	ProgramCd string `gorm:"column:program_cd"`
}

func (PartyProgramLink) TableName() string {
	return "ofac_party_program_link"
}

// CodeMaster corresponds to the 'ofac_code_master' table. It translates
// list, program and country codes to display strings.
type CodeMaster struct {
	CodeID    string `gorm:"column:code_id;primaryKey"`
	CodeValue string `gorm:"column:code_value"`
}

func (CodeMaster) TableName() string {
	return "ofac_code_master"
}
