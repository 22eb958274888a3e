package usecase

import (
	"net/url"
	"strings"
	"time"
)

// ResultFormFields names the query parameters of the result-submission link.
type ResultFormFields struct {
	ScrimID   string
	Players   string
	Maps      string
	Timestamp string
}

func DefaultResultFormFields() ResultFormFields {
	return ResultFormFields{
		ScrimID:   "scrimId",
		Players:   "players",
		Maps:      "maps",
		Timestamp: "timestamp",
	}
}

// ResultForm builds prefilled links to the external result-submission form.
type ResultForm struct {
	baseURL string
	fields  ResultFormFields
}

func NewResultForm(baseURL string, fields ResultFormFields) *ResultForm {
	defaults := DefaultResultFormFields()
	if strings.TrimSpace(fields.ScrimID) == "" {
		fields.ScrimID = defaults.ScrimID
	}
	if strings.TrimSpace(fields.Players) == "" {
		fields.Players = defaults.Players
	}
	if strings.TrimSpace(fields.Maps) == "" {
		fields.Maps = defaults.Maps
	}
	if strings.TrimSpace(fields.Timestamp) == "" {
		fields.Timestamp = defaults.Timestamp
	}
	return &ResultForm{baseURL: strings.TrimSpace(baseURL), fields: fields}
}

// URL returns the prefilled link, or "" when no form is configured.
func (f *ResultForm) URL(scrimUID string, playerNames, mapNames []string, at time.Time) string {
	if f == nil || f.baseURL == "" {
		return ""
	}

	params := url.Values{}
	params.Set(f.fields.ScrimID, scrimUID)
	params.Set(f.fields.Players, strings.Join(playerNames, ","))
	params.Set(f.fields.Maps, strings.Join(mapNames, ","))
	params.Set(f.fields.Timestamp, at.UTC().Format("2006-01-02T15:04:05.000Z07:00"))

	sep := "?"
	if strings.Contains(f.baseURL, "?") {
		sep = "&"
	}
	return f.baseURL + sep + params.Encode()
}
