// Copyright 2019 the kindora-go authors
// This file is part of the kindora-go library in the Kindora project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"encoding/json"
	"io/ioutil"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

func (c *config) Modify(newValues ...TokenConfigKeyValue) {
	for _, kv := range newValues {
		c.kv[kv.Key] = kv.Value
	}
}

func modifyFromJson(cfg mutableTokenConfig, source string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(source), &data); err != nil {
		return err
	}

	return populateConfig(cfg, data)
}

func convertKeyName(key string) string {
	return strings.ToUpper(strings.Replace(key, "-", "_", -1))
}

func parseUint64(f64 float64) (uint64, error) {
	if f64 < 0 || f64 != math.Trunc(f64) || f64 > math.MaxUint64 {
		return 0, errors.Errorf("%v is not a non-negative integer", f64)
	}
	return uint64(f64), nil
}

func populateConfig(cfg mutableTokenConfig, data map[string]interface{}) error {
	for key, value := range data {
		configKey := convertKeyName(key)

		if configKey == TOKEN_CHARITY_WALLET {
			wallet, ok := value.(string)
			if !ok || !common.IsHexAddress(wallet) {
				return errors.Errorf("could not decode value for config key %s: %v is not an address", key, value)
			}
			cfg.SetString(configKey, wallet)
			continue
		}

		switch typed := value.(type) {
		case bool:
			cfg.SetBool(configKey, typed)
		case float64:
			numericValue, err := parseUint64(typed)
			if err != nil {
				return errors.Wrapf(err, "could not decode value for config key %s", key)
			}
			cfg.SetUint64(configKey, numericValue)
		case string:
			if duration, decodeError := time.ParseDuration(typed); decodeError != nil {
				cfg.SetString(configKey, typed)
			} else {
				cfg.SetDuration(configKey, duration)
			}
		default:
			return errors.Errorf("could not decode value for config key %s: unsupported type %T", key, value)
		}
	}

	return nil
}

// For main reading several files into one config

type FilesPaths []string

func (i *FilesPaths) String() string {
	return strings.Join(*i, ",")
}

func (i *FilesPaths) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// GetTokenConfigFromFiles applies the files over the production defaults, later files win.
func GetTokenConfigFromFiles(configFiles FilesPaths) (TokenConfig, error) {
	cfg := ForProduction()

	for _, configFile := range configFiles {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, errors.Errorf("could not open config file: %s", err)
		}

		contents, err := ioutil.ReadFile(configFile)
		if err != nil {
			return nil, err
		}

		if err := modifyFromJson(cfg, string(contents)); err != nil {
			return nil, errors.Wrapf(err, "failed parsing config file %s", configFile)
		}
	}

	return cfg, nil
}
