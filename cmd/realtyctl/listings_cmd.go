package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/realtyproxy/realtyproxy/pkg/listing"
)

type listingsOpts struct {
	*rootOpts
	outputFormat string
	noPhoto      bool
}

func newListings(parent *rootOpts) *listingsOpts {
	return &listingsOpts{rootOpts: parent}
}

func (opts *listingsOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listings",
		Aliases: []string{"list-listings"},
		Short:   "List the listings realtyd is serving.",
		Example: "  realtyctl listings\n  realtyctl listings --no-photo",
		RunE:    opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.outputFormat, "output-format", "o", outputFormatTab, "output format (one of {tab,json})")
	cmd.Flags().BoolVar(&opts.noPhoto, "no-photo", false, "only show listings without a photo")
	return cmd
}

func (opts *listingsOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}
	if err := checkOutputFormat(opts.outputFormat); err != nil {
		return err
	}

	ctx := context.Background()
	listings, err := opts.API.ListListings(ctx)
	if err != nil {
		return err
	}

	if opts.noPhoto {
		listings = withoutPhoto(listings)
	}

	out := cmd.OutOrStdout()
	if opts.outputFormat == outputFormatJSON {
		return outputJSON(listings, out)
	}

	w := newTabwriter(out)
	fmt.Fprintf(w, "LISTING\tSTATUS\tPRICE\tADDRESS\tAGENT\tPHOTO\n")
	for _, l := range listings {
		photo := "-"
		if l.MediaURL != "" {
			photo = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\t%s\t%s\n", l.ListingKey, l.MlsStatus, l.ListPrice, l.UnparsedAddress, l.ListAgentFullName, photo)
	}
	return w.Flush()
}

func withoutPhoto(listings []listing.Listing) []listing.Listing {
	var filtered []listing.Listing
	for _, l := range listings {
		if l.MediaURL == "" {
			filtered = append(filtered, l)
		}
	}
	return filtered
}
