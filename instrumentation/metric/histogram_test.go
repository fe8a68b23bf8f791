// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHistogram_RecordsSamples(t *testing.T) {
	h := newHistogram("Token.Swap.Latency", time.Minute.Nanoseconds())
	h.Record(time.Millisecond)
	h.Record(2 * time.Millisecond)

	export := h.Export().(histogramExport)
	require.EqualValues(t, 2, export.Samples)
	require.NotNil(t, export.LogRow())
}

func TestHistogram_EmptyHasNoLogRow(t *testing.T) {
	h := newHistogram("Token.Swap.Latency", time.Minute.Nanoseconds())

	require.Nil(t, h.Export().LogRow())
}

func TestHistogram_OverflowIsCounted(t *testing.T) {
	h := newHistogram("short", time.Millisecond.Nanoseconds())
	h.Record(time.Hour)

	require.EqualValues(t, 1, h.overflowCount)
}
