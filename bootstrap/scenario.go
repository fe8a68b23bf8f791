// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package bootstrap

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/kindora-project/kindora-go/services/token"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

// Step is one call replayed against a deployment. Account names are resolved by ResolveAccount;
// Amount is in whole tokens and Native in whole units of the native currency, both may carry a
// decimal fraction.
type Step struct {
	Op          string `json:"op"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
	Account     string `json:"account,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Native      string `json:"native,omitempty"`
	Value       *bool  `json:"value,omitempty"`
	ExpectError bool   `json:"expect-error,omitempty"`
}

type Scenario struct {
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

type StepResult struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Events int    `json:"events"`
	Error  string `json:"error,omitempty"`
}

type AccountReport struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Tokens  string `json:"tokens"`
	Native  string `json:"native"`
}

type Report struct {
	Description     string          `json:"description"`
	Steps           []StepResult    `json:"steps"`
	TotalSupply     string          `json:"total-supply"`
	CharityTokens   string          `json:"charity-tokens"`
	LiquidityTokens string          `json:"liquidity-tokens"`
	MaxTxAmount     string          `json:"max-tx-amount"`
	MaxWalletAmount string          `json:"max-wallet-amount"`
	LimitsInEffect  bool            `json:"limits-in-effect"`
	Accounts        []AccountReport `json:"accounts"`
}

func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open scenario %s", path)
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	decoder.DisallowUnknownFields()
	scenario := &Scenario{}
	if err := decoder.Decode(scenario); err != nil {
		return nil, errors.Wrapf(err, "failed to parse scenario %s", path)
	}
	return scenario, nil
}

type stepFunc func(ctx context.Context, d *Deployment, s *Step) (*types.Receipt, error)

var steps = map[string]stepFunc{
	"transfer":                     transferStep,
	"approve":                      approveStep,
	"buy":                          buyStep,
	"sell":                         sellStep,
	"fund":                         fundStep,
	"add-liquidity":                addLiquidityStep,
	"exclude-from-fees":            exclusionStep((*token.Token).ExcludeFromFees),
	"exclude-from-max-tx":          exclusionStep((*token.Token).ExcludeFromMaxTx),
	"exclude-from-max-wallet":      exclusionStep((*token.Token).ExcludeFromMaxWallet),
	"set-min-tokens-for-swap":      amountStep((*token.Token).SetMinTokensForSwap),
	"update-max-tx":                amountStep((*token.Token).UpdateMaxTxAmount),
	"update-max-wallet":            amountStep((*token.Token).UpdateMaxWalletAmount),
	"set-charity-wallet":           setCharityWalletStep,
	"set-swap-and-liquify-enabled": setSwapAndLiquifyEnabledStep,
	"disable-limits":               disableLimitsStep,
	"rescue-native":                rescueNativeStep,
	"transfer-ownership":           transferOwnershipStep,
	"renounce-ownership":           renounceOwnershipStep,
}

// Run replays the scenario in order and stops at the first step whose outcome differs from its
// expect-error flag. The report reflects the state at that point.
func (d *Deployment) Run(ctx context.Context, scenario *Scenario) (*Report, error) {
	report := &Report{Description: scenario.Description}
	accounts := newAccountSet(d)

	var runErr error
	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		accounts.note(step.From, step.To, step.Account)

		receipt, err := d.runStep(ctx, step)
		result := StepResult{Index: i, Op: step.Op}
		if receipt != nil {
			result.Events = len(receipt.Logs)
		}
		if err != nil {
			result.Error = err.Error()
		}
		report.Steps = append(report.Steps, result)

		if err != nil && !step.ExpectError {
			runErr = errors.Wrapf(err, "step %d (%s) failed", i, step.Op)
			break
		}
		if err == nil && step.ExpectError {
			runErr = errors.Errorf("step %d (%s) succeeded but was expected to fail", i, step.Op)
			break
		}
		d.logger.Info("scenario step done", log.Int("index", i), log.String("op", step.Op), log.Int("events", result.Events))
	}

	d.fillReport(report, accounts)
	return report, runErr
}

func (d *Deployment) runStep(ctx context.Context, step *Step) (*types.Receipt, error) {
	f, ok := steps[step.Op]
	if !ok {
		return nil, errors.Errorf("unknown op %q", step.Op)
	}
	return f(ctx, d, step)
}

func (d *Deployment) fillReport(report *Report, accounts *accountSet) {
	units := uint32(d.Token.Decimals())
	report.TotalSupply = FormatUnits(d.Token.TotalSupply(), units)
	report.CharityTokens = FormatUnits(d.Token.CharityTokens(), units)
	report.LiquidityTokens = FormatUnits(d.Token.LiquidityTokens(), units)
	report.MaxTxAmount = FormatUnits(d.Token.MaxTxAmount(), units)
	report.MaxWalletAmount = FormatUnits(d.Token.MaxWalletAmount(), units)
	report.LimitsInEffect = d.Token.LimitsInEffect()

	state := d.Machine.State()
	for _, name := range accounts.names {
		address := accounts.addresses[name]
		report.Accounts = append(report.Accounts, AccountReport{
			Name:    name,
			Address: address.Hex(),
			Tokens:  FormatUnits(d.Token.BalanceOf(address), units),
			Native:  FormatUnits(state.NativeBalance(address), NATIVE_DECIMALS),
		})
	}
}

// ResolveAccount maps a scenario account name to an address. The names owner, token, router, pair
// and dead refer to the deployment; a hex string is taken literally; anything else is derived
// with AccountAddress.
func (d *Deployment) ResolveAccount(name string) (common.Address, error) {
	switch name {
	case "":
		return common.Address{}, errors.Wrap(token.ErrInvalidArgument, "missing account name")
	case "owner":
		return d.Owner, nil
	case "token":
		return d.Token.Address(), nil
	case "router":
		return d.Router.Address(), nil
	case "pair":
		return d.Token.Pair(), nil
	case "dead":
		return token.DEAD_ADDRESS, nil
	case "zero":
		return common.Address{}, nil
	}
	if common.IsHexAddress(name) {
		return common.HexToAddress(name), nil
	}
	return AccountAddress(name), nil
}

type accountSet struct {
	d         *Deployment
	names     []string
	addresses map[string]common.Address
}

func newAccountSet(d *Deployment) *accountSet {
	set := &accountSet{d: d, addresses: make(map[string]common.Address)}
	set.note("owner", "token", "pair")
	return set
}

func (s *accountSet) note(names ...string) {
	for _, name := range names {
		if _, seen := s.addresses[name]; seen {
			continue
		}
		address, err := s.d.ResolveAccount(name)
		if err != nil {
			continue
		}
		s.names = append(s.names, name)
		s.addresses[name] = address
	}
}

// ParseUnits converts a decimal string such as "1500" or "0.25" to base units.
func ParseUnits(amount string, decimals uint32) (*uint256.Int, error) {
	whole, fraction := amount, ""
	if dot := strings.IndexByte(amount, '.'); dot >= 0 {
		whole, fraction = amount[:dot], amount[dot+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if uint32(len(fraction)) > decimals {
		return nil, errors.Wrapf(token.ErrInvalidArgument, "amount %s has more than %d decimals", amount, decimals)
	}
	digits := whole + fraction + strings.Repeat("0", int(decimals)-len(fraction))

	value, ok := new(big.Int).SetString(digits, 10)
	if !ok || value.Sign() < 0 {
		return nil, errors.Wrapf(token.ErrInvalidArgument, "malformed amount %q", amount)
	}
	result, overflow := uint256.FromBig(value)
	if overflow {
		return nil, errors.Wrapf(token.ErrInvalidArgument, "amount %s overflows", amount)
	}
	return result, nil
}

// FormatUnits renders base units as a decimal string without trailing zeros.
func FormatUnits(amount *uint256.Int, decimals uint32) string {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, fraction := new(big.Int).QuoRem(amount.ToBig(), unit, new(big.Int))
	if fraction.Sign() == 0 {
		return whole.String()
	}
	padded := fraction.String()
	padded = strings.Repeat("0", int(decimals)-len(padded)) + padded
	return whole.String() + "." + strings.TrimRight(padded, "0")
}
