package models

// Roster bundles the inputs of one scheduling run.
type Roster struct {
	Teachers []Teacher   `json:"teachers" validate:"dive"`
	Classes  []ClassSpec `json:"classes" validate:"dive"`
	Students []Student   `json:"students" validate:"dive"`
}

// RosterSource identifies where a roster was loaded from.
type RosterSource string

const (
	RosterSourceJSON     RosterSource = "json"
	RosterSourceXLSX     RosterSource = "xlsx"
	RosterSourcePostgres RosterSource = "postgres"
	RosterSourceSQLite   RosterSource = "sqlite"
)
