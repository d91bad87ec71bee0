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

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/gorse-io/streamsight/cmd/version.Version=...".
var (
	Version   = ""
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the linker provided values, falling back to the module version and VCS
// stamps embedded by the go command.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if build, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && build.Main.Version != "" && build.Main.Version != "(devel)" {
			info.Version = build.Main.Version
		}
		for _, setting := range build.Settings {
			switch {
			case setting.Key == "vcs.revision" && info.GitCommit == "":
				info.GitCommit = setting.Value
			case setting.Key == "vcs.time" && info.BuildTime == "":
				info.BuildTime = setting.Value
			}
		}
	}
	info.Version = orUnknown(info.Version)
	info.GitCommit = orUnknown(info.GitCommit)
	info.BuildTime = orUnknown(info.BuildTime)
	return info
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func (info Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Version:\t %s\n", info.Version)
	fmt.Fprintf(&b, "Go version:\t %s\n", info.GoVersion)
	fmt.Fprintf(&b, "Git commit:\t %s\n", info.GitCommit)
	fmt.Fprintf(&b, "Built:\t\t %s\n", info.BuildTime)
	fmt.Fprintf(&b, "OS/Arch:\t %s\n", info.Platform)
	return b.String()
}

// BuildInfo formats Get for the version command.
func BuildInfo() string {
	return Get().String()
}
