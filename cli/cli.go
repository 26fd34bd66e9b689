// Package cli implements the interactive REPL driver: a line-oriented
// loop that tokenizes each input line and dispatches it through a cobra
// command tree.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lsmkv/iter"
	"lsmkv/store"
)

// Run reads lines from in until EOF or a "quit" command, dispatching each
// to get/put/delete/scan/fill, and writes results to out.
func Run(s *store.Store, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "$ ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		args := strings.Fields(line)
		root := newRootCommand(s, out)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if args[0] == "quit" {
			return nil
		}
	}
}

func newRootCommand(s *store.Store, out io.Writer) *cobra.Command {
	root := &cobra.Command{Use: "", SilenceUsage: true, SilenceErrors: true}
	root.SetOut(out)

	root.AddCommand(newGetCommand(s, out))
	root.AddCommand(newPutCommand(s))
	root.AddCommand(newDeleteCommand(s))
	root.AddCommand(newScanCommand(s, out))
	root.AddCommand(newFillCommand(s))
	root.AddCommand(&cobra.Command{
		Use: "quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.Close()
		},
	})
	return root
}

func newGetCommand(s *store.Store, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:  "get [key]",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok, err := s.Get([]byte(args[0]))
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(out, "%s=%s\n", args[0], value)
			}
			return nil
		},
	}
}

func newPutCommand(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:  "put [key] [value]",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.Put([]byte(args[0]), []byte(args[1]))
		},
	}
}

func newDeleteCommand(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:  "delete [key]",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.Delete([]byte(args[0]))
		},
	}
}

func newScanCommand(s *store.Store, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:  "scan [lower] [upper]",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lower := iter.UnboundedBound()
			upper := iter.UnboundedBound()
			if len(args) > 0 {
				lower = iter.IncludedBound([]byte(args[0]))
			}
			if len(args) > 1 {
				upper = iter.IncludedBound([]byte(args[1]))
			}

			it, err := s.Scan(lower, upper)
			if err != nil {
				return err
			}
			for {
				entry, ok := it.Next()
				if !ok {
					break
				}
				fmt.Fprintf(out, "%s=%s\n", entry.Key.Key(), entry.Value)
			}
			return nil
		},
	}
}

func newFillCommand(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:  "fill [lower] [upper]",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lower, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			upper, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return err
			}
			for i := lower; i <= upper; i++ {
				key := strconv.FormatUint(i, 10)
				value := "value@" + key
				if err := s.Put([]byte(key), []byte(value)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
