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

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorse-io/streamsight/dataset"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/gorse-io/streamsight/setting"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	config, err := LoadConfig("config.toml.template")
	require.NoError(t, err)
	// [dataset]
	assert.Equal(t, "events.csv", config.Dataset.Path)
	assert.Equal(t, ",", config.Dataset.Sep)
	assert.True(t, config.Dataset.HasHeader)
	assert.Equal(t, "ui_t", config.Dataset.Format)
	assert.Equal(t, 2, config.Dataset.MinUsersPerItem)
	assert.Equal(t, 3, config.Dataset.MinItemsPerUser)
	// [setting]
	assert.Equal(t, SingleTimePoint, config.Setting.Type)
	assert.Equal(t, 1577836800.0, config.Setting.BackgroundT)
	assert.Equal(t, 604800.0, config.Setting.DeltaAfterT)
	assert.Equal(t, 86400.0, config.Setting.WindowSize)
	assert.Equal(t, 3, config.Setting.NSeqData)
	assert.Equal(t, 5, config.Setting.TopK)
	assert.Equal(t, "user", config.Setting.Axis)
	require.NotNil(t, config.Setting.Seed)
	assert.Equal(t, int64(42), *config.Setting.Seed)

	options := config.Dataset.CSVOptions()
	assert.Equal(t, "ui_t", options.Format)
	assert.True(t, options.HasHeader)
	assert.Equal(t, dataset.Filters{MinUsersPerItem: 2, MinItemsPerUser: 3}, config.Dataset.Filters())
}

func TestSetDefault(t *testing.T) {
	v := viper.New()
	setDefault(v)
	v.SetConfigType("toml")
	err := v.ReadConfig(strings.NewReader(""))
	assert.NoError(t, err)
	var config Config
	err = v.Unmarshal(&config)
	assert.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), &config)
	assert.NoError(t, config.Validate())
}

type environmentVariable struct {
	key   string
	value string
}

func TestBindEnv(t *testing.T) {
	variables := []environmentVariable{
		{"STREAMSIGHT_DATASET_PATH", "<dataset_path>"},
		{"STREAMSIGHT_MIN_USERS_PER_ITEM", "7"},
		{"STREAMSIGHT_MIN_ITEMS_PER_USER", "8"},
		{"STREAMSIGHT_SETTING_TYPE", "sliding_window"},
		{"STREAMSIGHT_BACKGROUND_T", "100"},
		{"STREAMSIGHT_DELTA_AFTER_T", "200"},
		{"STREAMSIGHT_WINDOW_SIZE", "300"},
		{"STREAMSIGHT_N_SEQ_DATA", "4"},
		{"STREAMSIGHT_TOP_K", "5"},
		{"STREAMSIGHT_AXIS", "item"},
		{"STREAMSIGHT_SEED", "6"},
	}
	for _, variable := range variables {
		t.Setenv(variable.key, variable.value)
	}

	config, err := LoadConfig("config.toml.template")
	require.NoError(t, err)
	assert.Equal(t, "<dataset_path>", config.Dataset.Path)
	assert.Equal(t, 7, config.Dataset.MinUsersPerItem)
	assert.Equal(t, 8, config.Dataset.MinItemsPerUser)
	assert.Equal(t, SlidingWindow, config.Setting.Type)
	assert.Equal(t, 100.0, config.Setting.BackgroundT)
	assert.Equal(t, 200.0, config.Setting.DeltaAfterT)
	assert.Equal(t, 300.0, config.Setting.WindowSize)
	assert.Equal(t, 4, config.Setting.NSeqData)
	assert.Equal(t, 5, config.Setting.TopK)
	assert.Equal(t, "item", config.Setting.Axis)
	require.NotNil(t, config.Setting.Seed)
	assert.Equal(t, int64(6), *config.Setting.Seed)

	// check default values
	config, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "uit", config.Dataset.Format)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[setting]\naxis = \"session\"\n"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)

	config := GetDefaultConfig()
	config.Setting.TopK = 0
	assert.Error(t, config.Validate())
	config = GetDefaultConfig()
	config.Setting.Type = "leave_one_out"
	assert.Error(t, config.Validate())
	config = GetDefaultConfig()
	config.Dataset.Sep = ""
	assert.Error(t, config.Validate())
	config = GetDefaultConfig()
	config.Dataset.MinItemsPerUser = -1
	assert.Error(t, config.Validate())

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	config := GetDefaultConfig()
	config.Setting.BackgroundT = 10
	config.Setting.Axis = "item"
	seed := int64(7)
	config.Setting.Seed = &seed
	s, err := config.Setting.Build()
	require.NoError(t, err)
	single, ok := s.(*setting.SingleTimePointSetting)
	require.True(t, ok)
	assert.Equal(t, 10.0, single.BackgroundT())
	assert.Equal(t, setting.DefaultDeltaAfterT, single.DeltaAfterT())
	assert.Equal(t, matrix.ItemAxis, s.Axis())
	assert.Equal(t, int64(7), s.Seed())

	config.Setting.Type = SlidingWindow
	s, err = config.Setting.Build()
	require.NoError(t, err)
	sliding, ok := s.(*setting.SlidingWindowSetting)
	require.True(t, ok)
	assert.Equal(t, 86400.0, sliding.WindowSize())

	config.Setting.Type = "unknown"
	_, err = config.Setting.Build()
	assert.Error(t, err)
	config.Setting.Type = SingleTimePoint
	config.Setting.Axis = "session"
	_, err = config.Setting.Build()
	assert.Error(t, err)
}

func TestMap(t *testing.T) {
	m, err := GetDefaultConfig().Map()
	require.NoError(t, err)
	assert.Contains(t, m, "dataset")
	assert.Contains(t, m, "setting")
}

func TestJSONSchema(t *testing.T) {
	data, err := json.Marshal(JSONSchema())
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "dataset")
	assert.Contains(t, properties, "setting")
	assert.Contains(t, string(data), "min_items_per_user")
	assert.Contains(t, string(data), "sliding_window")
	assert.NotContains(t, schema, "required")
}
