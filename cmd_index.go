package main

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/etnz/dcfmeta/dcf"
	"github.com/etnz/dcfmeta/depgraph"
	"github.com/etnz/dcfmeta/index"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

func newPackagesCmd() *cobra.Command {
	var (
		nodeSel     nodeFlags
		signed      bool
		keyringPath string
		byName      bool
	)
	cmd := &cobra.Command{
		Use:   "packages INDEX",
		Short: "List the packages of a package index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := nodeSel.lookup()
			if err != nil {
				return err
			}

			src, err := openIndex(args[0], signed, keyringPath)
			if err != nil {
				return err
			}
			defer src.Close()

			switch {
			case byName:
				records, err := index.PackagesByName(src)
				if err != nil {
					return err
				}
				if node != nil {
					for name, rec := range records {
						if !index.Supports(rec, *node) {
							delete(records, name)
						}
					}
				}
				return printJSON(cmd.OutOrStdout(), records)
			case node != nil:
				pkgs, err := index.PackagesForNode(src, *node)
				if err != nil {
					return err
				}
				log.Debug().Str("node", node.Hostname).Int("packages", len(pkgs)).Msg("packages supported")
				return printLines(cmd.OutOrStdout(), pkgs)
			default:
				pkgs, err := index.Packages(src)
				if err != nil {
					return err
				}
				return printLines(cmd.OutOrStdout(), pkgs)
			}
		},
	}
	nodeSel.register(cmd, "Only list the packages supported by this node")
	cmd.Flags().BoolVar(&signed, "signed", false, "The index is clearsigned")
	cmd.Flags().StringVar(&keyringPath, "keyring", "", "Armored keyring to verify a signed index with")
	cmd.Flags().BoolVar(&byName, "by-name", false, "Print the records keyed by package name as JSON, filtered by --node")
	return cmd
}

// openIndex opens a plain or clearsigned package index. Indexes are
// decoded with dcf.DefaultDecoder whatever node they are read for.
func openIndex(path string, signed bool, keyringPath string) (*dcf.Source, error) {
	if !signed {
		return dcf.Open(path)
	}
	var keyring openpgp.EntityList
	if keyringPath != "" {
		var err error
		if keyring, err = index.ReadKeyRing(keyringPath); err != nil {
			return nil, fmt.Errorf("reading keyring %s: %w", keyringPath, err)
		}
	} else {
		log.Warn().Str("index", path).Msg("signature not verified, no keyring given")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return index.OpenSigned(f, keyring)
}

func newPkgFieldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pkg-field INDEX PACKAGE FIELD",
		Short: "Print a field of a package record in a package index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := index.PackageFieldFile(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), val)
			return err
		},
	}
}

func newSignIndexCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "sign-index INDEX KEYFILE",
		Short: "Clearsign a package index with an armored private key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			keyring, err := index.ReadKeyRing(args[1])
			if err != nil {
				return fmt.Errorf("reading key %s: %w", args[1], err)
			}
			signed, err := index.Sign(data, keyring)
			if err != nil {
				return fmt.Errorf("signing %s: %w", args[0], err)
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(signed)
				return err
			}
			if err := os.WriteFile(out, signed, 0644); err != nil {
				return err
			}
			log.Info().Str("index", args[0]).Str("out", out).Msg("index signed")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the signed index to this file instead of stdout")
	return cmd
}

func newDepsCmd() *cobra.Command {
	var reverse bool
	cmd := &cobra.Command{
		Use:   "deps FILE",
		Short: "Print a package dependency graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := depgraph.LoadFile(args[0])
			if err != nil {
				return err
			}
			if reverse {
				return printJSON(cmd.OutOrStdout(), g.ReverseDeps())
			}
			return printJSON(cmd.OutOrStdout(), g)
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Print reverse dependencies instead")
	return cmd
}
