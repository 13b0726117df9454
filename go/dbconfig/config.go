// Copyright 2026 The CarWashing-System Authors
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

// Package dbconfig loads the database credentials and pool sizing for
// the two access modes. Values come from a yaml config file, environment
// variables (CARWASH_ prefix), and command-line flags, in ascending
// precedence.
package dbconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultPort is the PostgreSQL default port.
	DefaultPort = 5432

	// DefaultPoolCapacity bounds each pool when the config does not
	// say otherwise.
	DefaultPoolCapacity = 10
)

// Credentials identifies one database principal plus the sizing of its
// connection pool.
type Credentials struct {
	Hostname     string
	Port         int
	Username     string
	Password     string
	Database     string
	SSLMode      string
	PoolCapacity int
}

// Config holds one credential set per access mode.
type Config struct {
	ReadOnly  Credentials
	ReadWrite Credentials
}

// RegisterFlags declares the database flags on the given flag set and
// binds them into v under the db.* keys.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) {
	for _, mode := range []string{"read_only", "read_write"} {
		flagMode := strings.ReplaceAll(mode, "_", "-")
		for _, f := range []struct {
			key, usage string
			def        any
		}{
			{"hostname", "database hostname", ""},
			{"port", "database port", DefaultPort},
			{"username", "database username", ""},
			{"password", "database password", ""},
			{"database", "database name", ""},
			{"sslmode", "lib/pq sslmode", "disable"},
			{"pool_capacity", "maximum connections in the pool", DefaultPoolCapacity},
		} {
			flagName := fmt.Sprintf("db-%s-%s", flagMode, strings.ReplaceAll(f.key, "_", "-"))
			usage := fmt.Sprintf("%s for the %s principal", f.usage, flagMode)
			switch def := f.def.(type) {
			case int:
				fs.Int(flagName, def, usage)
			case string:
				fs.String(flagName, def, usage)
			}
			key := fmt.Sprintf("db.%s.%s", mode, f.key)
			if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
				panic(fmt.Sprintf("binding flag %s: %v", flagName, err))
			}
		}
	}
}

// Load reads the db section out of v. Call after v has read its config
// file and bound its flags and environment. Each value is read through
// v.Get so flag, env, and file precedence all apply, including to nested
// keys.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		ReadOnly:  loadCredentials(v, "read_only"),
		ReadWrite: loadCredentials(v, "read_write"),
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadCredentials(v *viper.Viper, mode string) Credentials {
	key := func(k string) string { return fmt.Sprintf("db.%s.%s", mode, k) }
	return Credentials{
		Hostname:     v.GetString(key("hostname")),
		Port:         v.GetInt(key("port")),
		Username:     v.GetString(key("username")),
		Password:     v.GetString(key("password")),
		Database:     v.GetString(key("database")),
		SSLMode:      v.GetString(key("sslmode")),
		PoolCapacity: v.GetInt(key("pool_capacity")),
	}
}

// NewViper returns a viper instance wired for this process: CARWASH_
// env prefix with dots and dashes mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CARWASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadConfigFile merges the given yaml config file into v.
func ReadConfigFile(v *viper.Viper, configFile string) error {
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	for _, creds := range []*Credentials{&c.ReadOnly, &c.ReadWrite} {
		if creds.Port == 0 {
			creds.Port = DefaultPort
		}
		if creds.SSLMode == "" {
			creds.SSLMode = "disable"
		}
		if creds.PoolCapacity == 0 {
			creds.PoolCapacity = DefaultPoolCapacity
		}
	}
}

// Validate checks that both credential sets are usable.
func (c Config) Validate() error {
	for mode, creds := range map[string]Credentials{
		"read_only":  c.ReadOnly,
		"read_write": c.ReadWrite,
	} {
		if creds.Hostname == "" {
			return fmt.Errorf("db.%s.hostname is required", mode)
		}
		if creds.Database == "" {
			return fmt.Errorf("db.%s.database is required", mode)
		}
		if creds.Username == "" {
			return fmt.Errorf("db.%s.username is required", mode)
		}
		if creds.PoolCapacity <= 0 {
			return fmt.Errorf("db.%s.pool_capacity must be positive, got %d", mode, creds.PoolCapacity)
		}
	}
	return nil
}
