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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nanobox-io/gce-adapter/cmd/gce-adapter-cli/common"
	"github.com/nanobox-io/gce-adapter/params"
)

var (
	serverRegion     string
	serverSize       string
	serverSSHKeyFile string
)

var serverCmd = &cobra.Command{
	Use:          "server",
	Aliases:      []string{"servers"},
	SilenceUsage: true,
	Short:        "Manage servers",
	Long:         `Order, inspect, reboot and delete compute engine instances.`,
	Run:          nil,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := initClient(); err != nil {
			return err
		}
		return requireCredentials()
	},
}

var serverCreateCmd = &cobra.Command{
	Use:          "create NAME",
	Aliases:      []string{"add"},
	Short:        "Order a new server",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		createParams := params.CreateServerParams{
			Region: serverRegion,
			Size:   serverSize,
			Name:   args[0],
		}
		if serverSSHKeyFile != "" {
			key, err := os.ReadFile(serverSSHKeyFile)
			if err != nil {
				return fmt.Errorf("reading ssh key: %w", err)
			}
			createParams.SSHKey = string(key)
		}

		created, err := cli.CreateServer(createParams)
		if err != nil {
			return err
		}
		if outputFormat == common.OutputFormatJSON {
			return common.PrintAsJSON(created)
		}
		fmt.Printf("server %s ordered\n", created.ID)
		return nil
	},
}

var serverShowCmd = &cobra.Command{
	Use:          "show NAME",
	Short:        "Show server details",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		server, err := cli.GetServer(args[0])
		if err != nil {
			return err
		}
		return formatServer(server)
	},
}

var serverDeleteCmd = &cobra.Command{
	Use:          "delete NAME",
	Aliases:      []string{"rm", "del"},
	Short:        "Delete a server",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return cli.DeleteServer(args[0])
	},
}

var serverRebootCmd = &cobra.Command{
	Use:          "reboot NAME",
	Short:        "Hard reset a server",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return cli.RebootServer(args[0])
	},
}

func formatServer(server params.ServerDetails) error {
	if outputFormat == common.OutputFormatJSON {
		return common.PrintAsJSON(server)
	}
	t := table.NewWriter()
	header := table.Row{"Field", "Value"}
	t.AppendHeader(header)
	t.AppendRow(table.Row{"ID", server.ID})
	t.AppendRow(table.Row{"Name", server.Name})
	t.AppendRow(table.Row{"Status", server.Status})
	t.AppendRow(table.Row{"Internal IP", server.InternalIP})
	t.AppendRow(table.Row{"External IP", server.ExternalIP})
	fmt.Println(t.Render())
	return nil
}

func init() {
	serverCreateCmd.Flags().StringVar(&serverRegion, "region", "us-central1-a", "Zone to create the server in")
	serverCreateCmd.Flags().StringVar(&serverSize, "size", "f1-micro", "Machine type of the server")
	serverCreateCmd.Flags().StringVar(&serverSSHKeyFile, "ssh-key", "", "Path to a public key added to the server")

	serverCmd.AddCommand(
		serverCreateCmd,
		serverShowCmd,
		serverDeleteCmd,
		serverRebootCmd,
	)

	rootCmd.AddCommand(serverCmd)
}
