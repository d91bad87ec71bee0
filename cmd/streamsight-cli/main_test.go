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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorse-io/streamsight/base/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEvents(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"a,x,1\n"+
			"a,y,2\n"+
			"b,z,3\n"+
			"a,z,5\n"+
			"b,x,6\n"+
			"a,x,7\n"+
			"c,y,8\n"), 0644))
	return path
}

func execute(t *testing.T, args ...string) string {
	defer log.ReplaceLogger(log.Logger())()
	var buf bytes.Buffer
	cliCommand.SetOut(&buf)
	cliCommand.SetArgs(args)
	require.NoError(t, cliCommand.Execute())
	return buf.String()
}

func TestInspect(t *testing.T) {
	output := execute(t, "inspect", "--data", writeEvents(t))
	assert.Contains(t, output, "num_interactions")
	assert.Contains(t, output, "1970-01-01T00:00:08Z")
	assert.Contains(t, output, "a (4)")
	assert.Contains(t, output, "x (3)")
}

func TestSplit(t *testing.T) {
	output := execute(t, "split", "--data", writeEvents(t), "--background-t", "6", "--type", "sliding_window")
	assert.Contains(t, output, "1970-01-01T00:00:06Z")
}

func TestVersion(t *testing.T) {
	output := execute(t, "version")
	assert.Contains(t, output, "Go version")
}

func TestConfigSchema(t *testing.T) {
	output := execute(t, "config-schema")
	assert.Contains(t, output, "\"window_size\"")
	assert.Contains(t, output, "\"min_users_per_item\"")
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "1577836800 (2020-01-01T00:00:00Z)", formatTimestamp(1577836800))
}

func TestInspectFilters(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, cliCommand.PersistentFlags().Set("min-items-per-user", "0"))
	})
	// c saw one item only
	output := execute(t, "inspect", "--data", writeEvents(t), "--min-items-per-user", "2")
	assert.Regexp(t, `num_interactions\W+6\W`, output)
	assert.NotContains(t, output, "1970-01-01T00:00:08Z")
}
