package models

// Response shapes for the detail endpoint. The JSON keys (including the
// spaced ones like "Entity Name" and "ID / Information") are an external
// contract with existing consumers and must stay as-is.

// PartyDetails is the header section of a party detail response.
type PartyDetails struct {
	Type       string `json:"Type"`
	EntityName string `json:"Entity Name"`
	List       string `json:"List"`
	Program    string `json:"Program"`
	Remarks    string `json:"Remarks"`
}

// Identification is one identification attribute row, filtered to the fixed
// attribute-type allow-list.
type Identification struct {
	Type          string `json:"Type"`
	IDInformation string `json:"ID / Information"`
}

// AliasEntry is one a.k.a. name row.
type AliasEntry struct {
	Type     string `json:"Type"`
	Category string `json:"Category"`
	Name     string `json:"Name"`
}

// AddressEntry is one address row with the country code translated via the
// code master. StateProvince is always empty: the dataset does not model it.
type AddressEntry struct {
	Address       string `json:"Address"`
	City          string `json:"City"`
	StateProvince string `json:"State / Province"`
	PostalCode    string `json:"Postal Code"`
	Country       string `json:"Country"`
}

// PartyDetail is the full structured record returned for a single party.
type PartyDetail struct {
	Details         PartyDetails     `json:"details"`
	Identifications []Identification `json:"identifications"`
	Aliases         []AliasEntry     `json:"aliases"`
	Addresses       []AddressEntry   `json:"addresses"`
}

// SearchHit is one row of a unified search result. A party appears once per
// distinct (field, text) match context, so it can occur multiple times.
type SearchHit struct {
	PartyID      int64  `json:"party_id"`
	MatchedField string `json:"Matched Field"`
	MatchedText  string `json:"Matched Text"`
	EntityName   string `json:"Entity Name"`
	Type         string `json:"Type"`
	List         string `json:"List"`
	Program      string `json:"Program"`
}
