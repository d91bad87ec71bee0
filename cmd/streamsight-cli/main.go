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
	"encoding/json"
	"fmt"
	"os"

	"github.com/gorse-io/streamsight/base/log"
	"github.com/gorse-io/streamsight/cmd/version"
	"github.com/gorse-io/streamsight/config"
	"github.com/gorse-io/streamsight/dataset"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cliCommand = &cobra.Command{
	Use:   "streamsight-cli",
	Short: "Split interaction logs into leakage-free evaluation scenarios.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show the version of streamsight",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.BuildInfo())
	},
}

var configSchemaCommand = &cobra.Command{
	Use:   "config-schema",
	Short: "Print the JSON schema of the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(config.JSONSchema(), "", "  ")
		if err != nil {
			return errors.Trace(err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return errors.Trace(err)
	},
}

func init() {
	log.AddFlags(cliCommand.PersistentFlags())
	cliCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	cliCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	cliCommand.PersistentFlags().String("data", "", "path of the event log (overrides dataset.path)")
	cliCommand.PersistentFlags().Bool("progress", false, "show progress while loading the event log")
	cliCommand.PersistentFlags().Int("min-users-per-item", 0, "drop items seen by fewer distinct users (overrides dataset.min_users_per_item)")
	cliCommand.PersistentFlags().Int("min-items-per-user", 0, "drop users who saw fewer distinct items (overrides dataset.min_items_per_user)")
	cliCommand.AddCommand(versionCommand)
	cliCommand.AddCommand(configSchemaCommand)
}

// loadConfig loads the configuration and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	log.Logger().Info("load config", zap.String("config", configPath))
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if cmd.Flags().Changed("data") {
		conf.Dataset.Path, _ = cmd.Flags().GetString("data")
	}
	if cmd.Flags().Changed("min-users-per-item") {
		conf.Dataset.MinUsersPerItem, _ = cmd.Flags().GetInt("min-users-per-item")
	}
	if cmd.Flags().Changed("min-items-per-user") {
		conf.Dataset.MinItemsPerUser, _ = cmd.Flags().GetInt("min-items-per-user")
	}
	if conf.Dataset.Path == "" {
		return nil, errors.NotValidf("empty dataset path")
	}
	if err = conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

// loadMatrix reads the event log of the configuration and drops rare users and items.
func loadMatrix(cmd *cobra.Command, conf *config.DatasetConfig) (*dataset.Dataset, *matrix.InteractionMatrix, error) {
	file, err := os.Open(conf.Path)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	defer file.Close()
	var d *dataset.Dataset
	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		stat, err := file.Stat()
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		pbReader := progressbar.NewReader(file, progressbar.DefaultBytes(
			stat.Size(),
			"Loading event log",
		))
		d, err = dataset.LoadCSV(&pbReader, conf.CSVOptions())
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
	} else {
		d, err = dataset.LoadCSV(file, conf.CSVOptions())
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
	}
	m, err := d.Matrix()
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if err = conf.Filters().Apply(m); err != nil {
		return nil, nil, errors.Trace(err)
	}
	return d, m, nil
}

func main() {
	if err := cliCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
