// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"flag"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/holiman/uint256"
)

func init() {
	flag.Var(&randPreference, "test.randSeed",
		"Specify a random seed for tests, or 'launchClock' to use"+
			" the same arbitrary value in each test invocation")
}

type NamedLogger interface {
	Log(args ...interface{})
	Name() string
}

type randMode int

const (
	randPrefInvokeClock randMode = iota
	randPrefLaunchClock
	randPrefExplicit
)

type randomPreference struct {
	mode randMode
	seed int64
}

var randPreference randomPreference

func (i *randomPreference) String() string {
	switch i.mode {
	case randPrefLaunchClock:
		return fmt.Sprintf("launchClock: %v", i.seed)
	case randPrefExplicit:
		return fmt.Sprintf("explicit seed: %v", i.seed)
	default:
		return "clock at invocation (default)"
	}
}

func (i *randomPreference) Set(value string) error {
	if value == "launchClock" {
		i.mode = randPrefLaunchClock
		i.seed = time.Now().UTC().UnixNano()
		return nil
	}
	v, err := strconv.ParseInt(value, 0, 64)
	i.mode = randPrefExplicit
	i.seed = v
	return err
}

// ControlledRand logs its seed so a failing randomized test can be replayed with -test.randSeed.
type ControlledRand struct {
	*rand.Rand
}

func NewControlledRand(t NamedLogger) *ControlledRand {
	seed := randPreference.seed
	if randPreference.mode == randPrefInvokeClock {
		seed = time.Now().UTC().UnixNano()
	}
	t.Log(fmt.Sprintf("random seed %v (%s)", seed, t.Name()))

	return &ControlledRand{rand.New(rand.NewSource(seed))}
}

// Uint256 returns a value in [0, max) with every 64-bit word drawn at random. A zero max yields zero.
func (r *ControlledRand) Uint256(max *uint256.Int) *uint256.Int {
	if max.IsZero() {
		return new(uint256.Int)
	}
	v := &uint256.Int{r.Uint64(), r.Uint64(), r.Uint64(), r.Uint64()}
	return v.Mod(v, max)
}

// Uint64Between returns a value in [min, max].
func (r *ControlledRand) Uint64Between(min uint64, max uint64) uint64 {
	return min + uint64(r.Int63n(int64(max-min+1)))
}
