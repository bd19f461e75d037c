package refdb

import (
	"slices"
	"strings"
)

// Schema maps table columns to a reference entity's name and description.
type Schema struct {
	NameColumn        string
	DescriptionColumn string

	// DetailColumn, when set, is appended to the description after
	// DetailSeparator.
	DetailColumn    string
	DetailSeparator string
}

var (
	// IndustrySchema reads the KRX industry table.
	IndustrySchema = Schema{
		NameColumn:        "KRX 업종명",
		DescriptionColumn: "상세내용",
	}

	// PastIssueSchema reads the past issue table.
	PastIssueSchema = Schema{
		NameColumn:        "Issue_name",
		DescriptionColumn: "Contents",
		DetailColumn:      "Contentes(Spec)",
		DetailSeparator:   "\n\n상세: ",
	}
)

// Lookup resolves a reference name to its canonical description.
type Lookup interface {
	Description(name string) (string, bool)
}

// Dict is the trusted set of reference names with their descriptions.
type Dict struct {
	names        []string
	descriptions map[string]string
}

var _ Lookup = (*Dict)(nil)

// NewDict builds a Dict from a table. When a name repeats, the later row's
// description wins but the name keeps its first position.
func NewDict(table *Table, schema Schema) (*Dict, error) {
	nameIdx, err := table.ColumnIndex(schema.NameColumn)
	if err != nil {
		return nil, err
	}
	descIdx, err := table.ColumnIndex(schema.DescriptionColumn)
	if err != nil {
		return nil, err
	}
	detailIdx := -1
	if schema.DetailColumn != "" {
		detailIdx, err = table.ColumnIndex(schema.DetailColumn)
		if err != nil {
			return nil, err
		}
	}

	d := &Dict{descriptions: make(map[string]string, len(table.Rows))}
	for _, row := range table.Rows {
		name := strings.TrimSpace(row[nameIdx])
		if name == "" {
			continue
		}
		description := row[descIdx]
		if detailIdx >= 0 {
			description += schema.DetailSeparator + row[detailIdx]
		}
		d.set(name, description)
	}
	return d, nil
}

// NewDictFromMap builds a Dict from name/description pairs, ordering names
// lexically.
func NewDictFromMap(entries map[string]string) *Dict {
	d := &Dict{descriptions: make(map[string]string, len(entries))}
	for name, description := range entries {
		d.set(name, description)
	}
	slices.Sort(d.names)
	return d
}

func (d *Dict) set(name, description string) {
	if _, exists := d.descriptions[name]; !exists {
		d.names = append(d.names, name)
	}
	d.descriptions[name] = description
}

// Description returns the canonical description for name.
// A nil Dict knows no names.
func (d *Dict) Description(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	description, ok := d.descriptions[name]
	return description, ok
}

// Contains reports whether name is a known reference.
func (d *Dict) Contains(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.descriptions[name]
	return ok
}

// Names returns the reference names in table order.
func (d *Dict) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.names))
	copy(names, d.names)
	return names
}

func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}
