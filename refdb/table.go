// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package refdb

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/poiesic/issuematch/document"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/unicode/norm"
)

// Table is a reference table loaded from CSV.
type Table struct {
	Columns []string
	Rows    [][]string
}

// LoadTable reads a CSV reference table from disk.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := ReadTable(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ReadTable parses a CSV reference table. The first record is the header.
// Input that is not valid UTF-8 is decoded as CP949 (EUC-KR).
func ReadTable(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(data) {
		slog.Debug("reference table is not UTF-8, decoding as CP949")
		decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedEncoding, err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	columns := make([]string, len(records[0]))
	for i, column := range records[0] {
		columns[i] = normalize(document.StripBOM(column))
	}

	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]string, len(columns))
		for i := range row {
			if i < len(record) {
				row[i] = normalize(record[i])
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, column := range t.Columns {
		if column == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

func normalize(s string) string {
	return norm.NFC.String(s)
}
