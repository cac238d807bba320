package model

import (
	"time"
)

const (
	CaseTypeCriminal       = "criminal"
	CaseTypeEstate         = "estate"
	CaseTypePersonalInjury = "personal_injury"
	CaseTypeOther          = "other"
)

const (
	CaseStatusOpen   = "open"
	CaseStatusOnHold = "on_hold"
	CaseStatusClosed = "closed"
)

// CaseTypes lists the selectable case types in display order.
var CaseTypes = []Choice{
	{Value: CaseTypeCriminal, Label: "Criminal"},
	{Value: CaseTypeEstate, Label: "Estate"},
	{Value: CaseTypePersonalInjury, Label: "Personal Injury"},
	{Value: CaseTypeOther, Label: "Other"},
}

var CaseStatuses = []Choice{
	{Value: CaseStatusOpen, Label: "Open"},
	{Value: CaseStatusOnHold, Label: "On Hold"},
	{Value: CaseStatusClosed, Label: "Closed"},
}

type Case struct {
	ID               string     `db:"id"`
	Style            string     `db:"style"`
	CaseNumber       string     `db:"case_number"`
	CaseType         string     `db:"case_type"` // "" when unset
	Status           string     `db:"status"`
	ClientID         *string    `db:"client_id"`
	Judge            string     `db:"judge"`
	Court            string     `db:"court"`
	Parties          string     `db:"parties"`
	Defendant        string     `db:"defendant"`
	Charges          string     `db:"charges"`
	DecedentName     string     `db:"decedent_name"`
	EstateValue      string     `db:"estate_value"`
	AccidentLocation string     `db:"accident_location"`
	Description      string     `db:"description"`
	FiledDate        *time.Time `db:"filed_date"`
	RetainedDate     *time.Time `db:"retained_date"`
	DateOfDeath      *time.Time `db:"date_of_death"`
	AccidentDate     *time.Time `db:"accident_date"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// Reference is the human identifier used in filenames and listings.
func (c *Case) Reference() string {
	if c.CaseNumber != "" {
		return c.CaseNumber
	}
	return c.Style
}

// ChoiceLabel returns the label for value, or value itself when unknown.
func ChoiceLabel(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
