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

	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/dataset"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var splitCommand = &cobra.Command{
	Use:   "split",
	Short: "Split an event log by the configured setting",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		if cmd.Flags().Changed("background-t") {
			text, _ := cmd.Flags().GetString("background-t")
			if conf.Setting.BackgroundT, err = dataset.ParseTimestamp(text); err != nil {
				return errors.Annotatef(err, "invalid background t `%s`", text)
			}
		}
		if cmd.Flags().Changed("type") {
			conf.Setting.Type, _ = cmd.Flags().GetString("type")
		}
		if err = conf.Validate(); err != nil {
			return errors.Trace(err)
		}
		s, err := conf.Setting.Build()
		if err != nil {
			return errors.Trace(err)
		}
		_, m, err := loadMatrix(cmd, &conf.Dataset)
		if err != nil {
			return errors.Trace(err)
		}
		if err = s.Split(m); err != nil {
			return errors.Trace(err)
		}
		log.Logger().Info("split complete", zap.Int("num_split", s.NumSplit()), zap.Int64("seed", s.Seed()))

		background, err := s.BackgroundData()
		if err != nil {
			return errors.Trace(err)
		}
		unlabeled, err := s.UnlabeledDataSeries()
		if err != nil {
			return errors.Trace(err)
		}
		groundTruth, err := s.GroundTruthDataSeries()
		if err != nil {
			return errors.Trace(err)
		}
		limits, err := s.DataTimestampLimit()
		if err != nil {
			return errors.Trace(err)
		}
		var incremental []*matrix.InteractionMatrix
		if streaming, ok := s.(interface {
			IncrementalDataSeries() ([]*matrix.InteractionMatrix, error)
		}); ok {
			if incremental, err = streaming.IncrementalDataSeries(); err != nil {
				return errors.Trace(err)
			}
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header([]string{"split", "timestamp limit", "background", "unlabeled", "ground truth", "incremental"})
		if err = table.Append([]string{"-", "-", strconv.Itoa(background.NumInteractions()), "-", "-", "-"}); err != nil {
			return errors.Trace(err)
		}
		for i := range limits {
			numIncremental := "-"
			if i < len(incremental) {
				numIncremental = strconv.Itoa(incremental[i].NumInteractions())
			}
			if err = table.Append([]string{
				strconv.Itoa(i),
				formatTimestamp(limits[i]),
				"-",
				strconv.Itoa(unlabeled[i].NumInteractions()),
				strconv.Itoa(groundTruth[i].NumInteractions()),
				numIncremental,
			}); err != nil {
				return errors.Trace(err)
			}
		}
		return errors.Trace(table.Render())
	},
}

func init() {
	cliCommand.AddCommand(splitCommand)
	splitCommand.Flags().String("background-t", "", "background cutoff as Unix seconds or a date (overrides setting.background_t)")
	splitCommand.Flags().String("type", "", "single_time_point or sliding_window (overrides setting.type)")
}
