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

	"github.com/spf13/cobra"

	"github.com/nanobox-io/gce-adapter/cmd/gce-adapter-cli/client"
	"github.com/nanobox-io/gce-adapter/cmd/gce-adapter-cli/common"
)

const (
	urlEnvVar            = "GCE_ADAPTER_URL"
	serviceAccountEnvVar = "GCE_ADAPTER_SERVICE_ACCOUNT"
	defaultURL           = "http://127.0.0.1:8080"
)

var Version string

var (
	cli                 *client.Client
	adapterURL          string
	serviceAccountFile  string
	debug               bool
	outputFormat        = common.OutputFormatTable
	errNeedsCredentials = fmt.Errorf("a service account is required, use --service-account or %s", serviceAccountEnvVar)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gce-adapter-cli",
	Short: "GCE adapter CLI app",
	Long: `CLI for the Nanobox GCE adapter.

Talks to a running adapter the same way the Nanobox broker does. Commands
that touch the compute API need a service account JSON key file.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug on all API calls")
	rootCmd.PersistentFlags().StringVar(&adapterURL, "url", envOrDefault(urlEnvVar, defaultURL), "Base URL of the adapter")
	rootCmd.PersistentFlags().StringVar(&serviceAccountFile, "service-account", os.Getenv(serviceAccountEnvVar), "Path to a service account JSON key file")
	rootCmd.PersistentFlags().Var(&outputFormat, "format", "Output format (table, json)")

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func envOrDefault(name, def string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return def
}

func initClient() error {
	var serviceAccount []byte
	if serviceAccountFile != "" {
		var err error
		serviceAccount, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return fmt.Errorf("reading service account: %w", err)
		}
	}

	var err error
	cli, err = client.NewClient(adapterURL, serviceAccount, debug)
	return err
}

func requireCredentials() error {
	if serviceAccountFile == "" {
		return errNeedsCredentials
	}
	return nil
}
