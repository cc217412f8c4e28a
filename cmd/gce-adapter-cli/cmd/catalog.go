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

var catalogCmd = &cobra.Command{
	Use:          "catalog",
	SilenceUsage: true,
	Short:        "Inspect the plan catalog",
	Long:         `List or rebuild the zone and plan catalog served to the broker.`,
	Run:          nil,
}

var catalogListCmd = &cobra.Command{
	Use:          "list",
	Aliases:      []string{"ls"},
	Short:        "List the cached catalog",
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		catalog, err := cli.ListCatalog()
		if err != nil {
			return err
		}
		return formatCatalog(catalog)
	},
}

var catalogUpdateCmd = &cobra.Command{
	Use:          "update",
	Short:        "Rebuild the catalog",
	Long:         `Rebuild the catalog from the machine types visible to the service account.`,
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireCredentials(); err != nil {
			return err
		}
		catalog, err := cli.UpdateCatalog()
		if err != nil {
			return err
		}
		return formatCatalog(catalog)
	},
}

func formatCatalog(catalog params.Catalog) error {
	if outputFormat == common.OutputFormatJSON {
		return common.PrintAsJSON(catalog)
	}
	t := table.NewWriter()
	t.Style().Options.SeparateHeader = true
	header := table.Row{"Zone", "Plan", "CPU", "RAM (MB)", "Disk (GB)", "$/hr", "$/mo"}
	t.AppendHeader(header)
	for _, zone := range catalog {
		for _, plan := range zone.Plans {
			for _, spec := range plan.Specs {
				t.AppendRow(table.Row{
					zone.ID, spec.ID, spec.CPU, spec.RAM, spec.Disk,
					fmt.Sprintf("%.4f", spec.DollarsPerHr), spec.DollarsPerMo,
				})
			}
		}
		t.AppendSeparator()
	}
	fmt.Println(t.Render())
	return nil
}

func init() {
	catalogCmd.AddCommand(
		catalogListCmd,
		catalogUpdateCmd,
	)

	rootCmd.AddCommand(catalogCmd)
}
