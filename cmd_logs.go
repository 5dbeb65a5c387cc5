package main

import (
	"fmt"

	"github.com/etnz/dcfmeta/dcf"
	"github.com/etnz/dcfmeta/logtail"
	"github.com/etnz/dcfmeta/nodes"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

// nodeFlags select the build node that produced a log, so that the log is
// decoded in the node's encoding.
type nodeFlags struct {
	name string
	path string
}

func (f *nodeFlags) register(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVar(&f.name, "node", "", usage)
	cmd.Flags().StringVar(&f.path, "nodes", "nodes.yaml", "Node table (.yaml, .toml or .json)")
}

// lookup returns the selected node, or nil when --node is not set.
func (f *nodeFlags) lookup() (*nodes.Node, error) {
	if f.name == "" {
		return nil, nil
	}
	table, err := nodes.LoadTable(f.path)
	if err != nil {
		return nil, err
	}
	n, ok := table.Lookup(f.name)
	if !ok {
		return nil, fmt.Errorf("unknown node %q in %s", f.name, f.path)
	}
	return &n, nil
}

// logOptions returns the options to read a log produced by the selected node.
func (f *nodeFlags) logOptions() ([]dcf.Option, error) {
	node, err := f.lookup()
	if err != nil || node == nil {
		return nil, err
	}
	return []dcf.Option{dcf.WithDecoder(node.Decoder())}, nil
}

const logNodeUsage = "Decode the log in the output encoding of this node"

func newInstallOKCmd() *cobra.Command {
	var node nodeFlags
	cmd := &cobra.Command{
		Use:   "install-ok LOG PACKAGE",
		Short: "Print whether the install output in LOG shows no failure of PACKAGE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := node.logOptions()
			if err != nil {
				return err
			}
			ok, err := logtail.InstallPkgWasOK(args[0], args[1], opts...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
			return err
		},
	}
	node.register(cmd, logNodeUsage)
	return cmd
}

func newLockingPkgCmd() *cobra.Command {
	var node nodeFlags
	cmd := &cobra.Command{
		Use:   "locking-pkg LOG",
		Short: "Print the package whose 00LOCK directory blocked an install",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := node.logOptions()
			if err != nil {
				return err
			}
			pkg, ok, err := logtail.ExtractLockingPackage(args[0], opts...)
			if err != nil {
				return err
			}
			if !ok {
				log.Info().Str("file", args[0]).Msg("no 00LOCK directory reported")
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), pkg)
			return err
		},
	}
	node.register(cmd, logNodeUsage)
	return cmd
}

func newWarningsCmd() *cobra.Command {
	var node nodeFlags
	cmd := &cobra.Command{
		Use:   "warnings LOG",
		Short: "Print the number of warnings reported by 'R CMD check'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := node.logOptions()
			if err != nil {
				return err
			}
			n, err := logtail.CountWarnings(args[0], opts...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
	node.register(cmd, logNodeUsage)
	return cmd
}
