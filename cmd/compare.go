package cmd

import (
	"fmt"

	"github.com/djcass44/launchpad-tracker/pkg/debian"
	"github.com/djcass44/launchpad-tracker/pkg/diag"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <version> <version>",
	Short: "compare two dpkg version strings",
	Args:  cobra.ExactArgs(2),
	RunE:  compare,
}

func compare(cmd *cobra.Command, args []string) error {
	a := debian.ParseVersion(args[0])
	b := debian.ParseVersion(args[1])

	res := diag.Merge(diag.Empty[any](), diag.Status[any](a), diag.Status[any](b))
	diag.Render(cmd.ErrOrStderr(), res.Annotations())
	if !res.OK() {
		return fmt.Errorf("invalid version")
	}

	var op string
	switch a.MustValue().Compare(b.MustValue()) {
	case -1:
		op = "<<"
	case 0:
		op = "="
	case 1:
		op = ">>"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", args[0], op, args[1])
	return nil
}
