package cmd

import (
	"fmt"
	"strings"

	"github.com/djcass44/launchpad-tracker/pkg/changelog"
	"github.com/djcass44/launchpad-tracker/pkg/diag"
	"github.com/djcass44/launchpad-tracker/pkg/downloader"
	"github.com/spf13/cobra"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <path|url>",
	Short: "parse a changelog file and print its entries",
	Args:  cobra.ExactArgs(1),
	RunE:  readChangelog,
}

const (
	flagDeb      = "deb"
	flagCacheDir = "cache-dir"
)

func init() {
	changelogCmd.Flags().Bool(flagDeb, false, "treat the argument as a .deb package and read its packaged changelog")
	changelogCmd.Flags().String(flagCacheDir, ".lpt-cache", "directory to cache downloaded files")
}

func readChangelog(cmd *cobra.Command, args []string) error {
	fromDeb, _ := cmd.Flags().GetBool(flagDeb)
	cacheDir, _ := cmd.Flags().GetString(flagCacheDir)

	src := args[0]
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		dl, err := downloader.NewDownloader(cacheDir)
		if err != nil {
			return err
		}
		src, err = dl.Download(cmd.Context(), src)
		if err != nil {
			return err
		}
	}

	var reader *changelog.Reader
	var err error
	if fromDeb {
		reader, err = changelog.OpenDeb(cmd.Context(), src)
	} else {
		reader, err = changelog.Open(src)
	}
	if err != nil {
		return err
	}
	defer reader.Close()

	res := reader.ReadAll()
	diag.Render(cmd.ErrOrStderr(), res.Annotations())
	if !res.OK() {
		return fmt.Errorf("changelog contains errors: %s", src)
	}

	for _, entry := range res.MustValue() {
		dists := make([]string, 0)
		for _, d := range entry.Distributions() {
			dists = append(dists, d.String())
		}
		urgency, _ := entry.Urgency()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%s] urgency=%s by %s <%s> on %s\n",
			entry.Name(),
			entry.Version(),
			strings.Join(dists, " "),
			urgency,
			entry.Maintainer().Name,
			entry.Maintainer().Email,
			entry.Date().Format("2006-01-02 15:04:05 -0700"),
		)
	}
	return nil
}
