package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Review text is cut to this many characters in a table.
const maxReviewText = 60

type reviewsOpts struct {
	*rootOpts
	outputFormat string
}

func newReviews(parent *rootOpts) *reviewsOpts {
	return &reviewsOpts{rootOpts: parent}
}

func (opts *reviewsOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reviews",
		Aliases: []string{"list-reviews"},
		Short:   "List the place reviews realtyd is serving.",
		RunE:    opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.outputFormat, "output-format", "o", outputFormatTab, "output format (one of {tab,json})")
	return cmd
}

func (opts *reviewsOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}
	if err := checkOutputFormat(opts.outputFormat); err != nil {
		return err
	}

	ctx := context.Background()
	reviews, err := opts.API.ListReviews(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.outputFormat == outputFormatJSON {
		return outputJSON(reviews, out)
	}

	w := newTabwriter(out)
	fmt.Fprintf(w, "AUTHOR\tRATING\tDATE\tTEXT\n")
	for _, r := range reviews {
		date := time.Unix(r.Time, 0).UTC().Format("2006-01-02")
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.AuthorName, r.Rating, date, truncate(oneLine(r.Text), maxReviewText))
	}
	return w.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
