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

package command

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ITACrashCourse/CarWashing-System/go/dbconfig"
	"github.com/ITACrashCourse/CarWashing-System/go/servenv"
)

// CarwashDBCommand holds the configuration shared by carwashdb commands.
type CarwashDBCommand struct {
	configFile string
	logging    servenv.LoggingConfig

	v      *viper.Viper
	logger *slog.Logger
	cfg    dbconfig.Config
}

// GetRootCommand creates and returns the root command for carwashdb with
// all subcommands.
func GetRootCommand() *cobra.Command {
	cc := &CarwashDBCommand{}

	root := &cobra.Command{
		Use:   "carwashdb",
		Short: "Operational tooling for the car washing system's database pools",
		Long: `carwashdb verifies the database access layer: it loads the read-only
and read-write credential sets, builds one bounded connection pool per
mode, and exercises them against the configured server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cc.logger = cc.logging.NewLogger()

			if cc.configFile != "" {
				if err := dbconfig.ReadConfigFile(cc.v, cc.configFile); err != nil {
					return err
				}
			}

			cfg, err := dbconfig.Load(cc.v)
			if err != nil {
				return err
			}
			cc.cfg = cfg
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cc.configFile, "config-file", "", "Path to a yaml config file")
	cc.logging.RegisterFlags(root.PersistentFlags())

	cc.v = dbconfig.NewViper()
	dbconfig.RegisterFlags(root.PersistentFlags(), cc.v)

	root.AddCommand(pingCommand(cc))
	return root
}
