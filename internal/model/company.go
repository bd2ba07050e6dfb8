package model

import "strings"

// Company identifies the company a diligence run is about. It is supplied by
// the trigger and is never mutated once a run starts.
type Company struct {
	Name        string `json:"company_name" yaml:"company_name"`
	Website     string `json:"website" yaml:"website"`
	ExternalID  string `json:"external_id" yaml:"external_id"`
	Industry    string `json:"industry" yaml:"industry"`
	OneLiner    string `json:"one_liner,omitempty" yaml:"one_liner"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Missing returns the JSON names of required fields that are blank.
func (c Company) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "company_name")
	}
	if strings.TrimSpace(c.Website) == "" {
		missing = append(missing, "website")
	}
	if strings.TrimSpace(c.ExternalID) == "" {
		missing = append(missing, "external_id")
	}
	if strings.TrimSpace(c.Industry) == "" {
		missing = append(missing, "industry")
	}
	return missing
}
