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

// Package visualization renders sweep results on the console.
package visualization

import (
	"fmt"
	"io"

	"github.com/intelsdi-x/loadsweep/pkg/dataset"
	"github.com/olekukonko/tablewriter"
)

// PrintDataset draws dataset as a table grouped by load.
func PrintDataset(w io.Writer, sweepID string, ds *dataset.Dataset) {
	fmt.Fprintf(w, "Sweep id: %s\n", sweepID)
	if len(ds.Rows) == 0 {
		fmt.Fprintln(w, "Dataset is empty")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"load", "column", "mean", "stddev", "95% CI"})
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)
	for _, row := range ds.Rows {
		table.Append([]string{
			dataset.FormatFloat(row.Load),
			row.Column,
			formatCell(row.Mean),
			formatCell(row.StdDev),
			fmt.Sprintf("[%s, %s]", formatCell(row.CILower), formatCell(row.CIUpper)),
		})
	}
	table.Render()
}

func formatCell(value float64) string {
	if cell := dataset.FormatFloat(value); cell == "" {
		return "-"
	}
	return fmt.Sprintf("%.6g", value)
}
