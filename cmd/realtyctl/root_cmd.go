package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/realtyproxy/realtyproxy/pkg/api"
	transport "github.com/realtyproxy/realtyproxy/pkg/http"
	"github.com/realtyproxy/realtyproxy/pkg/http/client"
)

const (
	EnvVariableURL     = "REALTY_URL"
	EnvVariableTimeout = "REALTY_TIMEOUT"
)

type rootOpts struct {
	URL     string
	Timeout time.Duration
	API     api.Server
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
realtyctl asks a running realtyd what it is serving.

Workflow:
  realtyctl listings           # Which listings are shown, and do they have photos?
  realtyctl listings -o json   # The same, as the website sees it.
  realtyctl reviews            # Which reviews are shown?
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "realtyctl",
		Long:              rootLongHelp,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.PersistentPreRunE,
	}
	cmd.PersistentFlags().StringVarP(&opts.URL, "url", "u", "http://localhost:3000",
		fmt.Sprintf("base URL of the realtyd API server; you can also set the environment variable %s", EnvVariableURL))
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 60*time.Second,
		fmt.Sprintf("global command timeout; you can also set the environment variable %s", EnvVariableTimeout))

	cmd.AddCommand(
		newListings(opts).Command(),
		newReviews(opts).Command(),
	)

	return cmd
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("url") {
		if url := os.Getenv(EnvVariableURL); url != "" {
			opts.URL = url
		}
	}
	if !cmd.Flags().Changed("timeout") {
		if t := os.Getenv(EnvVariableTimeout); t != "" {
			d, err := time.ParseDuration(t)
			if err != nil {
				return newUsageError(fmt.Sprintf("%s: %s", EnvVariableTimeout, err))
			}
			opts.Timeout = d
		}
	}

	if opts.API == nil {
		opts.API = client.New(&http.Client{Timeout: opts.Timeout}, transport.NewAPIRouter(), opts.URL)
	}
	return nil
}
