package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Record is a row returned by a SOQL query, keyed by API field name.
type Record map[string]any

// ID returns the record's Salesforce Id.
func (r Record) ID() string {
	id, _ := r["Id"].(string)
	return id
}

// FindBy returns records of sObject whose field equals value, selecting the
// given fields plus Id. limit <= 0 means no limit.
func FindBy(ctx context.Context, c Client, sObject string, fields []string, field, value string, limit int) ([]Record, error) {
	soql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = '%s'",
		strings.Join(selectList(fields), ", "),
		sObject,
		field,
		escapeSoql(value),
	)
	if limit > 0 {
		soql += fmt.Sprintf(" LIMIT %d", limit)
	}

	var records []Record
	if err := c.Query(ctx, soql, &records); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("sf: find %s by %s", sObject, field))
	}
	return records, nil
}

// FindOneBy is FindBy limited to one record. It returns nil when no record
// matches.
func FindOneBy(ctx context.Context, c Client, sObject string, fields []string, field, value string) (Record, error) {
	records, err := FindBy(ctx, c, sObject, fields, field, value, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// UpdateRecord updates a record with the given fields.
func UpdateRecord(ctx context.Context, c Client, sObject, id string, fields map[string]any) error {
	if id == "" {
		return eris.New(fmt.Sprintf("sf: %s id is required", sObject))
	}
	if len(fields) == 0 {
		return eris.New("sf: no fields to update")
	}
	if err := c.UpdateOne(ctx, sObject, id, fields); err != nil {
		return eris.Wrap(err, fmt.Sprintf("sf: update %s %s", sObject, id))
	}
	return nil
}

// CreateRecord creates a record and returns the new Salesforce ID.
func CreateRecord(ctx context.Context, c Client, sObject string, fields map[string]any) (string, error) {
	if len(fields) == 0 {
		return "", eris.New("sf: no fields to insert")
	}
	id, err := c.InsertOne(ctx, sObject, fields)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("sf: create %s", sObject))
	}
	return id, nil
}

func selectList(fields []string) []string {
	out := []string{"Id"}
	for _, f := range fields {
		if f != "" && f != "Id" {
			out = append(out, f)
		}
	}
	return out
}

// escapeSoql escapes backslashes and single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}
