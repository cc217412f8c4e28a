// Copyright 2025 The Nanobox GCE Adapter Authors
//
//    Licensed under the Apache License, Version 2.0 (the "License"); you may
//    not use this file except in compliance with the License. You may obtain
//    a copy of the License at
//
//         http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
//    WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
//    License for the specific language governing permissions and limitations
//    under the License.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nanobox-io/gce-adapter/cmd/gce-adapter-cli/common"
	"github.com/nanobox-io/gce-adapter/params"
)

var keyCmd = &cobra.Command{
	Use:          "key",
	Aliases:      []string{"keys"},
	SilenceUsage: true,
	Short:        "Manage the project SSH key",
	Long: `Manage the project wide SSH key.

A project holds a single key. Adding a key replaces the previous one.`,
	Run: nil,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := initClient(); err != nil {
			return err
		}
		return requireCredentials()
	},
}

var keyAddCmd = &cobra.Command{
	Use:          "add PUBLIC_KEY_FILE",
	Short:        "Set the project key",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		key, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		created, err := cli.CreateKey(strings.TrimSpace(string(key)))
		if err != nil {
			return err
		}
		if outputFormat == common.OutputFormatJSON {
			return common.PrintAsJSON(created)
		}
		fmt.Printf("key %s added\n", created.ID)
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:          "show ID",
	Short:        "Show the project key",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		key, err := cli.GetKey(args[0])
		if err != nil {
			return err
		}
		return formatKey(key)
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:          "delete ID",
	Aliases:      []string{"rm", "del"},
	Short:        "Clear the project key",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return cli.DeleteKey(args[0])
	},
}

func formatKey(key params.KeyDetails) error {
	if outputFormat == common.OutputFormatJSON {
		return common.PrintAsJSON(key)
	}
	t := table.NewWriter()
	header := table.Row{"Field", "Value"}
	t.AppendHeader(header)
	t.AppendRow(table.Row{"ID", key.ID})
	t.AppendRow(table.Row{"Name", key.Name})
	t.AppendRow(table.Row{"Public Key", key.PublicKey})
	fmt.Println(t.Render())
	return nil
}

func init() {
	keyCmd.AddCommand(
		keyAddCmd,
		keyShowCmd,
		keyDeleteCmd,
	)

	rootCmd.AddCommand(keyCmd)
}
