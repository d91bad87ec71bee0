// Copyright 2022 gorse Project Authors
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

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	temp := t.TempDir()
	defer ReplaceLogger(Logger())()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	err := flagSet.Parse([]string{"--log-path", filepath.Join(temp, "streamsight.log")})
	assert.NoError(t, err)
	SetLogger(flagSet, false)
	Logger().Info("hello")
	_, err = os.Stat(filepath.Join(temp, "streamsight.log"))
	assert.NoError(t, err)
}

func TestReplaceLogger(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := ReplaceLogger(zap.New(core))
	Warn("empty_selection", "nothing selected", zap.Int("n", 0))
	restore()
	Warn("empty_selection", "not observed")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "nothing selected", entries[0].Message)
		assert.Equal(t, "empty_selection", entries[0].ContextMap()[WarningKey])
		assert.Equal(t, int64(0), entries[0].ContextMap()["n"])
	}
}
