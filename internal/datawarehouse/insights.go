package datawarehouse

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// tableNamePattern accepts table or schema.table identifiers
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// FacilityInsight is one curated analysis row. Risks and opportunities are stored
// as ';'-separated text.
type FacilityInsight struct {
	LocationID    int64
	Summary       string
	Risks         []string
	Opportunities []string
}

// FacilityInsight reads the analysis for a location. It returns nil without error when
// the warehouse has no row for the location.
func (c *Client) FacilityInsight(ctx context.Context, table string, locationID int64) (*FacilityInsight, error) {
	if err := validateTableName(table); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT summary, risks, opportunities FROM %s WHERE location_id = @p1", table)
	row, err := c.queryRow(ctx, query, locationID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	return &FacilityInsight{
		LocationID:    locationID,
		Summary:       asString(row["summary"]),
		Risks:         SplitList(asString(row["risks"])),
		Opportunities: SplitList(asString(row["opportunities"])),
	}, nil
}

// ProgramOverview reads the program overview text. ok is false when the table is empty.
func (c *Client) ProgramOverview(ctx context.Context, table string) (overview string, ok bool, err error) {
	if err := validateTableName(table); err != nil {
		return "", false, err
	}

	row, err := c.queryRow(ctx, fmt.Sprintf("SELECT overview FROM %s", table))
	if err != nil {
		return "", false, err
	}
	if row == nil {
		return "", false, nil
	}
	return asString(row["overview"]), true, nil
}

// SplitList splits ';'-separated text, trimming blanks and dropping empty items
func SplitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func validateTableName(table string) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid warehouse table name: %q", table)
	}
	return nil
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
