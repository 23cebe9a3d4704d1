package cmd

import (
	"fmt"
	"os"

	"github.com/djcass44/launchpad-tracker/pkg/airutil"
	v1 "github.com/djcass44/launchpad-tracker/pkg/api/v1"
	"github.com/djcass44/launchpad-tracker/pkg/archive"
	"github.com/djcass44/launchpad-tracker/pkg/debian"
	"github.com/djcass44/launchpad-tracker/pkg/diag"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/yaml"
)

var checkCmd = &cobra.Command{
	Use:   "check <package> <version>",
	Short: "check whether a package version is already released",
	Args:  cobra.ExactArgs(2),
	RunE:  check,
}

const flagConfig = "config"

func init() {
	checkCmd.Flags().StringP(flagConfig, "c", "", "path to a tracking configuration file")

	_ = checkCmd.MarkFlagRequired(flagConfig)
	_ = checkCmd.MarkFlagFilename(flagConfig, ".yaml", ".yml")
}

func check(cmd *cobra.Command, args []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	configPath, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := readConfig(configPath)
	if err != nil {
		return err
	}

	// parse both arguments before touching the network so the
	// user gets every input problem in one go
	name := debian.ParseName(args[0])
	version := debian.ParseVersion(args[1])
	inputs := diag.Merge(diag.Empty[any](), diag.Status[any](name), diag.Status[any](version))
	diag.Render(cmd.ErrOrStderr(), inputs.Annotations())
	if !inputs.OK() {
		return fmt.Errorf("invalid arguments")
	}

	sections, res := resolveSections(cfg)
	diag.Render(cmd.ErrOrStderr(), res.Annotations())
	if !res.OK() {
		return fmt.Errorf("invalid configuration: %s", configPath)
	}

	for _, s := range sections {
		idx, err := archive.NewIndex(cmd.Context(), s.url, s.section, s.arch)
		if err != nil {
			log.Error(err, "failed to load index", "section", s.section.String())
			return err
		}
		released := idx.HasRelease(cmd.Context(), name.MustValue(), version.MustValue())
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: released=%t", s.section, s.arch, released)
		if latest, ok := idx.LatestVersion(cmd.Context(), name.MustValue()); ok {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), " latest=%s", latest)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

type target struct {
	url     string
	section debian.Section
	arch    debian.Architecture
}

// resolveSections validates the raw configuration into value
// types, collecting diagnostics from every field rather than
// stopping at the first bad one.
func resolveSections(cfg v1.Track) ([]target, diag.Result[any]) {
	res := diag.Empty[any]()
	var out []target
	for _, a := range cfg.Spec.Archives {
		components := a.Components
		if len(components) == 0 {
			components = []string{"main"}
		}
		architectures := a.Architectures
		if len(architectures) == 0 {
			architectures = []string{"amd64"}
		}
		for _, rawSuite := range a.Suites {
			suite := debian.ParseSuite(rawSuite)
			res = diag.Merge(res, diag.Status[any](suite))
			for _, rawComponent := range components {
				component := debian.ParseComponent(rawComponent)
				res = diag.Merge(res, diag.Status[any](component))
				for _, rawArch := range architectures {
					arch := debian.ParseArchitecture(rawArch)
					res = diag.Merge(res, diag.Status[any](arch))
					if !suite.OK() || !component.OK() || !arch.OK() {
						continue
					}
					out = append(out, target{
						url: airutil.ExpandEnv(a.URL),
						section: debian.Section{
							Archive:   a.Name,
							Component: component.MustValue(),
							Suite:     suite.MustValue(),
						},
						arch: arch.MustValue(),
					})
				}
			}
		}
	}
	return out, res
}

func readConfig(s string) (v1.Track, error) {
	f, err := os.Open(s)
	if err != nil {
		return v1.Track{}, err
	}

	var config v1.Track
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&config); err != nil {
		return v1.Track{}, err
	}
	return config, nil
}
