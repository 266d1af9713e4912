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

// Package dataset merges trial summaries of a sweep and writes them as one CSV table.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/intelsdi-x/loadsweep/pkg/summary"
	"github.com/intelsdi-x/loadsweep/pkg/sweep"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Header is the first record of every written dataset.
var Header = []string{"column", "mean", "stddev", "ci_lower", "ci_upper", "load"}

// Dataset is an ordered table of summaries of the whole sweep.
type Dataset struct {
	Rows []summary.Summary
}

// Merge concatenates summaries of groups in given order.
func Merge(groups []sweep.Group) *Dataset {
	dataset := &Dataset{}
	for _, group := range groups {
		dataset.Rows = append(dataset.Rows, group.Summaries...)
	}
	return dataset
}

// SortByLoad orders rows by ascending load keeping column order within a load.
func (d *Dataset) SortByLoad() {
	sort.SliceStable(d.Rows, func(i, j int) bool {
		return d.Rows[i].Load < d.Rows[j].Load
	})
}

// Loads returns distinct loads in order of appearance.
func (d *Dataset) Loads() []float64 {
	var loads []float64
	seen := map[float64]struct{}{}
	for _, row := range d.Rows {
		if _, ok := seen[row.Load]; !ok {
			seen[row.Load] = struct{}{}
			loads = append(loads, row.Load)
		}
	}
	return loads
}

// Record returns row i serialized as CSV cells. Not a number is serialized as empty cell.
func (d *Dataset) Record(i int) []string {
	row := d.Rows[i]
	return []string{
		row.Column,
		FormatFloat(row.Mean),
		FormatFloat(row.StdDev),
		FormatFloat(row.CILower),
		FormatFloat(row.CIUpper),
		FormatFloat(row.Load),
	}
}

// FormatFloat formats value with the shortest exact representation.
func FormatFloat(value float64) string {
	if math.IsNaN(value) {
		return ""
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// Write writes header and all rows to w.
func (d *Dataset) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return errors.Wrap(err, "cannot write dataset header")
	}
	for i := range d.Rows {
		if err := writer.Write(d.Record(i)); err != nil {
			return errors.Wrapf(err, "cannot write dataset row %d", i)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "cannot flush dataset")
}

// WriteCSV writes dataset to path atomically: the file is either fully written or left untouched.
func (d *Dataset) WriteCSV(path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "cannot create temporary dataset in %q", dir)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = d.Write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "cannot sync %q", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close %q", tmp.Name())
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrapf(err, "cannot set permissions of %q", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "cannot move dataset to %q", path)
	}

	logrus.Debugf("dataset with %d rows written to %q", len(d.Rows), path)
	return nil
}
