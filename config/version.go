// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

// set with -ldflags at build time
var SemanticVersion string
var CommitVersion string

type Version struct {
	Semantic string
	Commit   string
}

func GetVersion() Version {
	v := Version{
		Semantic: SemanticVersion,
		Commit:   CommitVersion,
	}
	if v.Semantic == "" {
		v.Semantic = "dev"
	}
	return v
}

func (v Version) String() string {
	if v.Commit == "" {
		return "kindora " + v.Semantic
	}
	return "kindora " + v.Semantic + " (" + v.Commit + ")"
}
