package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kansuji-go/kansuji/internal/report"
	"github.com/spf13/cobra"
)

func newMatchesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "matches [text]",
		Short: "List the numeral expressions found in text",
		Long: `Prints one line per numeral expression: kind, byte span, source text and
replacement. The text is read from stdin when no argument is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(data)
			}
			return a.printMatches(cmd.OutOrStdout(), text, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print matches as JSON")
	return cmd
}

func (a *app) printMatches(w io.Writer, text string, asJSON bool) error {
	ms := report.Describe(a.conv, text)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ms)
	}
	for _, m := range ms {
		line := fmt.Sprintf("%s\t%d-%d\t%s\t%s", m.Kind, m.Start, m.End, m.Source, m.Replacement)
		if m.Error != "" {
			line += "\t(" + m.Error + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
