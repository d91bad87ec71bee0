// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"strconv"
	"time"

	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var inspectCommand = &cobra.Command{
	Use:   "inspect",
	Short: "Show properties of an event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		d, m, err := loadMatrix(cmd, &conf.Dataset)
		if err != nil {
			return errors.Trace(err)
		}
		properties := m.Properties()
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"property", "value"})
		rows := [][]string{
			{"num_users", strconv.Itoa(properties.NumUsers)},
			{"num_items", strconv.Itoa(properties.NumItems)},
			{"num_interactions", strconv.Itoa(properties.NumInteractions)},
			{"num_active_users", strconv.Itoa(properties.NumActiveUsers)},
			{"num_active_items", strconv.Itoa(properties.NumActiveItems)},
			{"has_timestamps", strconv.FormatBool(properties.HasTimestamps)},
		}
		if properties.HasTimestamps && properties.NumInteractions > 0 {
			minTimestamp, err := m.MinTimestamp()
			if err != nil {
				return errors.Trace(err)
			}
			maxTimestamp, err := m.MaxTimestamp()
			if err != nil {
				return errors.Trace(err)
			}
			rows = append(rows,
				[]string{"min_timestamp", formatTimestamp(minTimestamp)},
				[]string{"max_timestamp", formatTimestamp(maxTimestamp)})
		}
		// counted over the raw log, before filters
		if user, freq, ok := d.UserDict().MostFrequent(); ok {
			rows = append(rows, []string{"most_active_user", user + " (" + strconv.Itoa(freq) + ")"})
		}
		if item, freq, ok := d.ItemDict().MostFrequent(); ok {
			rows = append(rows, []string{"most_popular_item", item + " (" + strconv.Itoa(freq) + ")"})
		}
		for _, row := range rows {
			if err = table.Append(row); err != nil {
				return errors.Trace(err)
			}
		}
		return errors.Trace(table.Render())
	},
}

func init() {
	cliCommand.AddCommand(inspectCommand)
}

// formatTimestamp prints Unix seconds with the equivalent UTC date.
func formatTimestamp(ts float64) string {
	return strconv.FormatFloat(ts, 'f', -1, 64) + " (" + time.Unix(int64(ts), 0).UTC().Format(time.RFC3339) + ")"
}
