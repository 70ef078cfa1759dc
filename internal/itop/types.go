package itop

import (
	"bytes"
	"encoding/json"
)

// envelope is the JSON wrapper returned by every iTop REST call. A
// non-zero code is the sole failure signal; objects is keyed by
// "<class>::<id>".
type envelope struct {
	Code    int                       `json:"code"`
	Message string                    `json:"message"`
	Objects map[string]objectEnvelope `json:"objects"`
}

type objectEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Key     string          `json:"key"`
	Fields  json.RawMessage `json:"fields"`
}

// apiRequest is the json_data payload of an iTop REST call. Key is either
// an OQL select string or a numeric object key.
type apiRequest struct {
	Operation    string            `json:"operation"`
	Comment      string            `json:"comment,omitempty"`
	Class        string            `json:"class"`
	Key          string            `json:"key,omitempty"`
	OutputFields string            `json:"output_fields,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
}

// flexString tolerates iTop's habit of returning ids as either JSON
// numbers or strings depending on version and output_fields.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// TeamRecord is a raw iTop Team row.
type TeamRecord struct {
	Key     string
	Name    string
	Persons []TeamMember
}

// TeamMember is one entry of a team's persons_list.
type TeamMember struct {
	PersonID   string
	PersonName string
}

type teamFields struct {
	Name        string `json:"name"`
	PersonsList []struct {
		PersonID   flexString `json:"person_id"`
		PersonName string     `json:"person_name"`
	} `json:"persons_list"`
}

// PersonRecord is a raw iTop Person row.
type PersonRecord struct {
	Key          string
	ID           string
	FriendlyName string
	Teams        []PersonTeam
}

// PersonTeam is one entry of a person's team_list. The first entry is
// treated as the person's department.
type PersonTeam struct {
	TeamID   string
	TeamName string
}

type personFields struct {
	ID           flexString `json:"id"`
	FriendlyName string     `json:"friendlyname"`
	TeamList     []struct {
		TeamID   flexString `json:"team_id"`
		TeamName string     `json:"team_name"`
	} `json:"team_list"`
}

// UserRequestRecord is a raw iTop UserRequest row. Fields the reconciler
// needs are pulled out; anything else in the wildcard fetch is dropped.
type UserRequestRecord struct {
	Key                string
	Ref                string
	Title              string
	Description        string
	CallerName         string
	CallerFriendlyName string
	TeamName           string
	AgentFriendlyName  string
	Status             string
	StartDate          string
	LastUpdate         string
}

type userRequestFields struct {
	Ref                string `json:"ref"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	CallerName         string `json:"caller_name"`
	CallerFriendlyName string `json:"caller_id_friendlyname"`
	TeamName           string `json:"team_name"`
	AgentFriendlyName  string `json:"agent_id_friendlyname"`
	Status             string `json:"status"`
	StartDate          string `json:"start_date"`
	LastUpdate         string `json:"last_update"`
}

type refFields struct {
	Ref string `json:"ref"`
}
