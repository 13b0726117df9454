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
	"time"

	"github.com/spf13/cobra"

	"github.com/ITACrashCourse/CarWashing-System/go/dbaccess"
	"github.com/ITACrashCourse/CarWashing-System/go/pgconn"
)

func pingCommand(cc *CarwashDBCommand) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Verify both access modes against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := dbaccess.Open(cc.cfg, cc.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			one, err := dbaccess.WithReadOnlyAccess(ctx, db, func(cursor *pgconn.Cursor) (int, error) {
				row, err := cursor.QueryRow(ctx, "SELECT 1")
				if err != nil {
					return 0, err
				}
				var n int
				err = row.Scan(&n)
				return n, err
			})
			if err != nil {
				return err
			}
			cc.logger.Info("read-only access verified",
				"result", one,
				"pool", db.RO.Pool().Stats(),
			)

			_, err = dbaccess.WithTransaction(ctx, db, func(cursor *pgconn.Cursor) (struct{}, error) {
				_, err := cursor.Exec(ctx, "SELECT 1")
				return struct{}{}, err
			})
			if err != nil {
				return err
			}
			cc.logger.Info("read-write access verified",
				"pool", db.RW.Pool().Stats(),
			)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Overall timeout for the ping")
	return cmd
}
