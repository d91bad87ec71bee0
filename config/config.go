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
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorse-io/streamsight/dataset"
	"github.com/gorse-io/streamsight/matrix"
	"github.com/gorse-io/streamsight/setting"
	"github.com/invopop/jsonschema"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	SingleTimePoint = "single_time_point"
	SlidingWindow   = "sliding_window"
)

// Config is the configuration of an evaluation scenario.
type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Setting SettingConfig `mapstructure:"setting"`
}

// DatasetConfig describes the event log file.
type DatasetConfig struct {
	Path      string `mapstructure:"path"`
	Sep       string `mapstructure:"sep" validate:"len=1" jsonschema:"minLength=1,maxLength=1"`
	HasHeader bool   `mapstructure:"has_header"`
	Format    string `mapstructure:"format" validate:"required" jsonschema:"pattern=^[uit_]+$"`
	// MinUsersPerItem and MinItemsPerUser drop rare items and users. Zero disables them.
	MinUsersPerItem int `mapstructure:"min_users_per_item" validate:"gte=0" jsonschema:"minimum=0"`
	MinItemsPerUser int `mapstructure:"min_items_per_user" validate:"gte=0" jsonschema:"minimum=0"`
}

// SettingConfig describes how data is split.
type SettingConfig struct {
	Type        string  `mapstructure:"type" validate:"oneof=single_time_point sliding_window" jsonschema:"enum=single_time_point,enum=sliding_window"`
	BackgroundT float64 `mapstructure:"background_t"`
	DeltaAfterT float64 `mapstructure:"delta_after_t" validate:"gt=0" jsonschema:"exclusiveMinimum=0"`
	WindowSize  float64 `mapstructure:"window_size" validate:"gt=0" jsonschema:"exclusiveMinimum=0"`
	NSeqData    int     `mapstructure:"n_seq_data" validate:"gte=0" jsonschema:"minimum=0"`
	TopK        int     `mapstructure:"top_k" validate:"gt=0" jsonschema:"minimum=1"`
	Axis        string  `mapstructure:"axis" validate:"oneof=user item" jsonschema:"enum=user,enum=item"`
	Seed        *int64  `mapstructure:"seed"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Sep:    ",",
			Format: "uit",
		},
		Setting: SettingConfig{
			Type:        SingleTimePoint,
			DeltaAfterT: setting.DefaultDeltaAfterT,
			WindowSize:  86400,
			NSeqData:    1,
			TopK:        1,
			Axis:        "user",
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [dataset]
	v.SetDefault("dataset.sep", defaultConfig.Dataset.Sep)
	v.SetDefault("dataset.has_header", defaultConfig.Dataset.HasHeader)
	v.SetDefault("dataset.format", defaultConfig.Dataset.Format)
	v.SetDefault("dataset.min_users_per_item", defaultConfig.Dataset.MinUsersPerItem)
	v.SetDefault("dataset.min_items_per_user", defaultConfig.Dataset.MinItemsPerUser)
	// [setting]
	v.SetDefault("setting.type", defaultConfig.Setting.Type)
	v.SetDefault("setting.background_t", defaultConfig.Setting.BackgroundT)
	v.SetDefault("setting.delta_after_t", defaultConfig.Setting.DeltaAfterT)
	v.SetDefault("setting.window_size", defaultConfig.Setting.WindowSize)
	v.SetDefault("setting.n_seq_data", defaultConfig.Setting.NSeqData)
	v.SetDefault("setting.top_k", defaultConfig.Setting.TopK)
	v.SetDefault("setting.axis", defaultConfig.Setting.Axis)
}

type configBinding struct {
	key string
	env string
}

var bindings = []configBinding{
	{"dataset.path", "STREAMSIGHT_DATASET_PATH"},
	{"dataset.min_users_per_item", "STREAMSIGHT_MIN_USERS_PER_ITEM"},
	{"dataset.min_items_per_user", "STREAMSIGHT_MIN_ITEMS_PER_USER"},
	{"setting.type", "STREAMSIGHT_SETTING_TYPE"},
	{"setting.background_t", "STREAMSIGHT_BACKGROUND_T"},
	{"setting.delta_after_t", "STREAMSIGHT_DELTA_AFTER_T"},
	{"setting.window_size", "STREAMSIGHT_WINDOW_SIZE"},
	{"setting.n_seq_data", "STREAMSIGHT_N_SEQ_DATA"},
	{"setting.top_k", "STREAMSIGHT_TOP_K"},
	{"setting.axis", "STREAMSIGHT_AXIS"},
	{"setting.seed", "STREAMSIGHT_SEED"},
}

// LoadConfig loads configuration from a toml file and environment variables. An empty
// path loads defaults and environment variables only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

func (config *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(config)
}

// JSONSchema describes the configuration file. Every key is optional.
func JSONSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		FieldNameTag:               "mapstructure",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	return reflector.Reflect(&Config{})
}

// Map flattens the configuration into nested maps keyed by field names.
func (config *Config) Map() (map[string]any, error) {
	var m map[string]any
	if err := mapstructure.Decode(config, &m); err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}

func (config *DatasetConfig) CSVOptions() dataset.CSVOptions {
	return dataset.CSVOptions{
		Sep:       config.Sep,
		HasHeader: config.HasHeader,
		Format:    config.Format,
	}
}

func (config *DatasetConfig) Filters() dataset.Filters {
	return dataset.Filters{
		MinUsersPerItem: config.MinUsersPerItem,
		MinItemsPerUser: config.MinItemsPerUser,
	}
}

// Build creates the configured setting.
func (config *SettingConfig) Build() (setting.Setting, error) {
	axis, err := matrix.ParseAxis(config.Axis)
	if err != nil {
		return nil, errors.Trace(err)
	}
	opts := []setting.Option{
		setting.WithNSeqData(config.NSeqData),
		setting.WithTopK(config.TopK),
		setting.WithAxis(axis),
	}
	if config.Seed != nil {
		opts = append(opts, setting.WithSeed(*config.Seed))
	}
	switch config.Type {
	case SingleTimePoint:
		s, err := setting.NewSingleTimePointSetting(config.BackgroundT,
			append(opts, setting.WithDeltaAfterT(config.DeltaAfterT))...)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return s, nil
	case SlidingWindow:
		s, err := setting.NewSlidingWindowSetting(config.BackgroundT, config.WindowSize, opts...)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return s, nil
	default:
		return nil, errors.NotSupportedf("setting `%s`", config.Type)
	}
}
