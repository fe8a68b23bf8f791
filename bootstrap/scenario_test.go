// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kindora-project/kindora-go/config"
	"github.com/kindora-project/kindora-go/test"
	"github.com/kindora-project/kindora-go/test/with"
	"github.com/stretchr/testify/require"
)

func enabled(v bool) *bool {
	return &v
}

func accountReport(t *testing.T, report *Report, name string) AccountReport {
	for _, a := range report.Accounts {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("account %s missing from report", name)
	return AccountReport{}
}

func accountNames(report *Report) []string {
	var names []string
	for _, a := range report.Accounts {
		names = append(names, a.Name)
	}
	return names
}

func TestRun_SellIsTaxedAndReported(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		d := newTestDeployment(t, parent, config.ForTokenTests(common.Address{}, 0))

		report, err := d.Run(context.Background(), &Scenario{
			Description: "one taxed sell",
			Steps: []Step{
				{Op: "transfer", From: "owner", To: "alice", Amount: "100000"},
				{Op: "sell", From: "alice", Amount: "10000"},
			},
		})
		require.NoError(t, err)

		require.Len(t, report.Steps, 2)
		require.Empty(t, report.Steps[1].Error)
		test.RequireCmpEqual(t, []string{"owner", "token", "pair", "alice"}, accountNames(report), "accounts are listed in order of appearance")
		require.Equal(t, "9999900", report.TotalSupply)
		require.Equal(t, "300", report.CharityTokens)
		require.Equal(t, "100", report.LiquidityTokens)
		require.Equal(t, "90000", accountReport(t, report, "alice").Tokens)
		require.Equal(t, "400", accountReport(t, report, "token").Tokens)
		require.NotEqual(t, "0", accountReport(t, report, "alice").Native)
	})
}

func TestRun_ExpectedFailuresDoNotStopTheRun(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		d := newTestDeployment(t, parent, config.ForTokenTests(common.Address{}, 0))

		report, err := d.Run(context.Background(), &Scenario{
			Steps: []Step{
				{Op: "exclude-from-max-wallet", Account: "alice", Value: enabled(true)},
				{Op: "transfer", From: "owner", To: "alice", Amount: "300000"},
				{Op: "transfer", From: "alice", To: "bob", Amount: "250000", ExpectError: true},
				{Op: "update-max-tx", Amount: "100", ExpectError: true},
				{Op: "disable-limits", From: "alice", ExpectError: true},
				{Op: "disable-limits"},
				{Op: "transfer", From: "alice", To: "bob", Amount: "250000"},
			},
		})
		require.NoError(t, err)
		test.RequireCmpEqual(t, AccountReport{
			Name:    "bob",
			Address: AccountAddress("bob").Hex(),
			Tokens:  "250000",
			Native:  "0",
		}, accountReport(t, report, "bob"))
		require.Len(t, report.Steps, 7)
		require.Contains(t, report.Steps[2].Error, "max-tx")
		require.False(t, report.LimitsInEffect)
	})
}

func TestRun_StopsAtTheFirstUnexpectedOutcome(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		d := newTestDeployment(t, parent, config.ForTokenTests(common.Address{}, 0))

		report, err := d.Run(context.Background(), &Scenario{
			Steps: []Step{
				{Op: "transfer", From: "alice", To: "bob", Amount: "1"},
				{Op: "transfer", From: "owner", To: "bob", Amount: "1"},
			},
		})
		require.Error(t, err)
		require.Len(t, report.Steps, 1)
		require.Equal(t, "0", accountReport(t, report, "bob").Tokens)

		_, err = d.Run(context.Background(), &Scenario{
			Steps: []Step{{Op: "transfer", From: "owner", To: "bob", Amount: "1", ExpectError: true}},
		})
		require.Error(t, err, "a step that succeeds against expectations fails the run")

		_, err = d.Run(context.Background(), &Scenario{Steps: []Step{{Op: "mint"}}})
		require.Error(t, err)
	})
}

func TestRun_OwnerOperations(t *testing.T) {
	with.Logging(t, func(parent *with.LoggingHarness) {
		d := newTestDeployment(t, parent, config.ForTokenTests(common.Address{}, 0))

		_, err := d.Run(context.Background(), &Scenario{
			Steps: []Step{
				{Op: "set-charity-wallet", Account: "charity"},
				{Op: "set-min-tokens-for-swap", Amount: "1"},
				{Op: "set-swap-and-liquify-enabled", Value: enabled(false)},
				{Op: "exclude-from-fees", Account: "alice", Value: enabled(true)},
				{Op: "exclude-from-max-tx", Account: "alice", Value: enabled(true)},
				{Op: "exclude-from-max-wallet", Account: "alice", Value: enabled(true)},
				{Op: "exclude-from-fees", Account: "alice"},
				{Op: "update-max-wallet", Amount: "300000"},
				{Op: "fund", To: "bob", Native: "2.5"},
				{Op: "buy", To: "bob", Native: "1"},
				{Op: "transfer-ownership", Account: "carol"},
			},
		})
		require.Error(t, err, "exclude-from-fees without a value is rejected")

		require.Equal(t, AccountAddress("charity"), d.Token.CharityWallet())
		require.Equal(t, d.TokenUnits(1), d.Token.MinTokensForSwap())
		require.False(t, d.Token.SwapAndLiquifyEnabled())
		require.True(t, d.Token.IsExcludedFromFees(AccountAddress("alice")))
		require.True(t, d.Token.IsExcludedFromMaxWallet(AccountAddress("alice")))

		report, err := d.Run(context.Background(), &Scenario{
			Steps: []Step{
				{Op: "update-max-wallet", Amount: "300000"},
				{Op: "fund", To: "bob", Native: "2.5"},
				{Op: "buy", To: "bob", Native: "1"},
				{Op: "transfer-ownership", Account: "carol"},
				{Op: "disable-limits", ExpectError: true},
				{Op: "renounce-ownership", From: "carol"},
			},
		})
		require.NoError(t, err)
		require.Equal(t, "1.5", accountReport(t, report, "bob").Native)
		require.NotEqual(t, "0", accountReport(t, report, "bob").Tokens)
		require.Equal(t, "300000", report.MaxWalletAmount)
		require.Equal(t, common.Address{}, d.Token.Owner())
	})
}

func TestLoadScenario(t *testing.T) {
	dir, err := os.MkdirTemp("", "scenario")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "steps.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"description": "sell",
		"steps": [
			{"op": "transfer", "from": "owner", "to": "alice", "amount": "100000"},
			{"op": "exclude-from-fees", "account": "alice", "value": true},
			{"op": "sell", "from": "alice", "amount": "10000", "expect-error": false}
		]
	}`), 0600))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	require.Equal(t, "sell", scenario.Description)
	require.Len(t, scenario.Steps, 3)
	require.True(t, *scenario.Steps[1].Value)

	require.NoError(t, os.WriteFile(path, []byte(`{"steps": [{"op": "transfer", "amnt": "1"}]}`), 0600))
	_, err = LoadScenario(path)
	require.Error(t, err, "unknown fields are rejected")

	_, err = LoadScenario(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
