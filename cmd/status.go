package cmd

import (
	"fmt"
	"strconv"

	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/logging"
	"github.com/grovetools/kit/reporter"
	"github.com/grovetools/kit/util/httpstatus"
	"github.com/spf13/cobra"
)

// StatusOutput is one classified HTTP status code.
type StatusOutput struct {
	Code  int    `json:"code"`
	Class string `json:"class"`
	Text  string `json:"text"`
	Error bool   `json:"error"`
}

func NewStatusCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "status CODE...",
		Short: "Classify HTTP status codes",
		Long: `Classifies each HTTP status code as informational, success, redirection,
client_error or server_error. With --summary the codes are counted per class.

Examples:
  kit status 200 404 503
  kit status --summary --json 200 201 500`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := reporter.New(nil, reporter.WithLogger(cli.GetLogger(cmd)))
			defer r.Close()

			results := make([]StatusOutput, 0, len(args))
			for _, arg := range args {
				code, err := strconv.Atoi(arg)
				if err != nil {
					return errors.InvalidInput("%q is not a status code", arg)
				}
				class, err := httpstatus.Classify(code)
				if err != nil {
					return err
				}
				text, _ := httpstatus.Text(code)
				results = append(results, StatusOutput{
					Code:  code,
					Class: class.String(),
					Text:  text,
					Error: httpstatus.IsError(code),
				})
				if err := httpstatus.Record(r, "http", code); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			jsonOutput := cli.GetOptions(cmd).JSONOutput
			if summary {
				if jsonOutput {
					return writeJSON(out, r.Snapshot())
				}
				logging.NewPrettyLogger().WithWriter(out).Fields(r.Snapshot())
				return nil
			}
			if jsonOutput {
				return writeJSON(out, results)
			}
			for _, res := range results {
				fmt.Fprintf(out, "%d %s (%s)\n", res.Code, res.Text, res.Class)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "Print per-class counts instead of each code")
	return cmd
}
