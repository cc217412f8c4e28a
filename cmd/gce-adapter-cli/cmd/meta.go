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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nanobox-io/gce-adapter/cmd/gce-adapter-cli/common"
	"github.com/nanobox-io/gce-adapter/params"
)

var metaCmd = &cobra.Command{
	Use:          "meta",
	SilenceUsage: true,
	Short:        "Show adapter metadata",
	Long:         `Show the metadata the adapter advertises to the broker.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		meta, err := cli.Meta()
		if err != nil {
			return err
		}
		return formatMeta(meta)
	},
}

var verifyCmd = &cobra.Command{
	Use:          "verify",
	SilenceUsage: true,
	Short:        "Verify credentials",
	Long:         `Check that the service account is accepted by the adapter.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireCredentials(); err != nil {
			return err
		}
		if err := cli.Verify(); err != nil {
			return err
		}
		fmt.Println("credentials are valid")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:          "version",
	SilenceUsage: true,
	Short:        "Print version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(Version)
	},
}

func formatMeta(meta params.Meta) error {
	if outputFormat == common.OutputFormatJSON {
		return common.PrintAsJSON(meta)
	}
	t := table.NewWriter()
	header := table.Row{"Field", "Value"}
	t.AppendHeader(header)
	t.AppendRow(table.Row{"ID", meta.ID})
	t.AppendRow(table.Row{"Name", meta.Name})
	t.AppendRow(table.Row{"Server Nick Name", meta.ServerNickName})
	t.AppendRow(table.Row{"Default Region", meta.DefaultRegion})
	t.AppendRow(table.Row{"Default Size", meta.DefaultSize})
	t.AppendRow(table.Row{"Default Plan", meta.DefaultPlan})
	t.AppendRow(table.Row{"Can Reboot", meta.CanReboot})
	t.AppendRow(table.Row{"Can Rename", meta.CanRename})
	for _, field := range meta.CredentialFields {
		t.AppendRow(table.Row{"Credential Field", fmt.Sprintf("%s (%s)", field.Key, field.Label)})
	}
	fmt.Println(t.Render())
	return nil
}

func init() {
	rootCmd.AddCommand(metaCmd, verifyCmd, versionCmd)
}
