package main

import (
	"fmt"

	"github.com/etnz/dcfmeta/dcf"
	"github.com/etnz/dcfmeta/pkgmeta"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a DCF file and print its records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if merge {
				rec, err := dcf.ParseFileMerged(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rec)
			}
			records, err := dcf.ParseFile(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "Merge all records into one, later values winning")
	return cmd
}

func newFieldCmd() *cobra.Command {
	var fullLine bool
	cmd := &cobra.Command{
		Use:   "field FILE FIELD",
		Short: "Print the first value of a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := dcf.LookupFile(args[0], dcf.Field(args[1]), fullLine)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), val)
			return err
		},
	}
	cmd.Flags().BoolVar(&fullLine, "full-line", false, "Return the rest of the line instead of its first word")
	return cmd
}

func newPkgInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pkg-info DIR",
		Short: "Print the name, version, status and tarball of a package source tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			type pkgInfo struct {
				Package string `json:"package"`
				Version string `json:"version"`
				Status  string `json:"status"`
				Tarball string `json:"tarball"`
			}
			var info pkgInfo
			var err error
			if info.Package, err = pkgmeta.PackageName(dir); err != nil {
				return err
			}
			if info.Version, err = pkgmeta.Version(dir); err != nil {
				return err
			}
			if info.Status, err = pkgmeta.PackageStatus(dir); err != nil {
				return err
			}
			if !pkgmeta.VersionIsValid(info.Version) {
				log.Warn().Str("package", info.Package).Str("version", info.Version).Msg("invalid version")
			}
			info.Tarball = pkgmeta.SrcTarball(info.Package, info.Version)
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}

func newMaintainerCmd() *cobra.Command {
	var name, email bool
	cmd := &cobra.Command{
		Use:   "maintainer DIR",
		Short: "Print the maintainer of a package source tree, as computed by R",
		Long: "Print the maintainer of a package source tree, as computed by R.\n\n" +
			"Runs $BBS_R_HOME/bin/Rscript with $BBS_HOME/utils/getMaintainer.R.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pkgmeta.NewRscriptMaintainer()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var val string
			switch {
			case name:
				val, err = pkgmeta.MaintainerName(ctx, args[0], src)
			case email:
				val, err = pkgmeta.MaintainerEmail(ctx, args[0], src)
			default:
				val, err = pkgmeta.Maintainer(ctx, args[0], src)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), val)
			return err
		},
	}
	cmd.Flags().BoolVar(&name, "name", false, "Print the name only")
	cmd.Flags().BoolVar(&email, "email", false, "Print the email only")
	cmd.MarkFlagsMutuallyExclusive("name", "email")
	return cmd
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options DIR [KEY]",
		Short: "Print the .BBSoptions of a package source tree, or one of them",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				val, ok := pkgmeta.Option(args[0], args[1])
				if !ok {
					log.Info().Str("option", args[1]).Msg("option not set")
					return nil
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), val)
				return err
			}
			opts := pkgmeta.Options(args[0])
			if opts == nil {
				opts = dcf.Record{}
			}
			return printJSON(cmd.OutOrStdout(), opts)
		},
	}
}

func newTarballCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tarball PATH",
		Short: "Print the package and version encoded in a source tarball name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, version, err := pkgmeta.ParseSrcTarball(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"package":       pkg,
				"version":       version,
				"valid_version": pkgmeta.VersionIsValid(version),
			})
		},
	}
}

func newInjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inject DESCRIPTION GITLOG",
		Short: "Write git provenance and Date/Publication into a DESCRIPTION file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgmeta.InjectProvenance(args[0], args[1]); err != nil {
				return err
			}
			log.Info().Str("file", args[0]).Str("gitlog", args[1]).Msg("provenance injected")
			return nil
		},
	}
}
