// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package artifacts

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Pattern matches artifact files inside of a trial directory.
const Pattern = "*.csv"

var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"N/A":  {},
	"#N/A": {},
	"None": {},
}

// IsMissing returns true when cell denotes a missing value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

// Discover returns sorted paths of CSV files placed directly in dir.
func Discover(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, Pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list artifacts in %q", dir)
	}

	regular := files[:0]
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot stat artifact %q", file)
		}
		if info.Mode().IsRegular() {
			regular = append(regular, file)
		}
	}
	sort.Strings(regular)
	return regular, nil
}

// Load reads all files into one buffer.
// Rows are concatenated ignoring file boundaries and columns are united by name.
func Load(files ...string) (*Buffer, error) {
	buffer := NewBuffer()
	for _, file := range files {
		if err := loadFile(buffer, file); err != nil {
			return nil, err
		}
	}
	return buffer, nil
}

func loadFile(buffer *Buffer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open artifact %q", path)
	}
	defer f.Close()

	if err := buffer.ReadCSV(f); err != nil {
		return errors.Wrapf(err, "cannot parse artifact %q", path)
	}
	logrus.Debugf("artifact %q loaded, buffer has %d rows", path, buffer.Rows())
	return nil
}

// Column is a named series of one buffer.
type Column struct {
	Name    string
	Values  []float64
	Numeric bool
}

// Present returns all values which are not missing.
func (c Column) Present() []float64 {
	present := make([]float64, 0, len(c.Values))
	for _, value := range c.Values {
		if !math.IsNaN(value) {
			present = append(present, value)
		}
	}
	return present
}

// Buffer is a tabular collection of rows with named columns.
// Missing cells are represented by NaN.
type Buffer struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewBuffer returns empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{index: map[string]int{}}
}

// Rows returns number of rows in the buffer.
func (b *Buffer) Rows() int {
	return b.rows
}

// Columns returns columns in order of first appearance.
func (b *Buffer) Columns() []Column {
	columns := make([]Column, 0, len(b.columns))
	for _, column := range b.columns {
		columns = append(columns, *column)
	}
	return columns
}

// Column returns column of given name.
func (b *Buffer) Column(name string) (Column, bool) {
	i, ok := b.index[name]
	if !ok {
		return Column{}, false
	}
	return *b.columns[i], true
}

func (b *Buffer) column(name string) *Column {
	if i, ok := b.index[name]; ok {
		return b.columns[i]
	}

	column := &Column{Name: name, Numeric: true, Values: make([]float64, b.rows)}
	for i := range column.Values {
		column.Values[i] = math.NaN()
	}
	b.index[name] = len(b.columns)
	b.columns = append(b.columns, column)
	return column
}

// ReadCSV appends rows of CSV document with header to the buffer.
func (b *Buffer) ReadCSV(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "cannot read header")
	}

	names := uniqueNames(header)
	targets := make([]*Column, len(names))
	for i, name := range names {
		targets[i] = b.column(name)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "cannot read record")
		}
		b.appendRecord(targets, record)
	}
}

// uniqueNames trims header names and renames repeated ones to "name.1", "name.2", ...
// so that every position of the header keeps its own column.
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]struct{}, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
	}
	for _, name := range names {
		taken[name] = struct{}{}
	}

	counts := map[string]int{}
	for i, name := range names {
		count, repeated := counts[name]
		if !repeated {
			counts[name] = 0
			continue
		}
		renamed := name
		for {
			count++
			renamed = name + "." + strconv.Itoa(count)
			if _, ok := taken[renamed]; !ok {
				break
			}
		}
		counts[name] = count
		taken[renamed] = struct{}{}
		names[i] = renamed
	}
	return names
}

func (b *Buffer) appendRecord(targets []*Column, record []string) {
	b.rows++
	for _, column := range b.columns {
		column.Values = append(column.Values, math.NaN())
	}

	for i, column := range targets {
		if i >= len(record) || IsMissing(record[i]) {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			column.Numeric = false
			continue
		}
		column.Values[b.rows-1] = value
	}
}
