package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/magic-lib/go-plat-hotcache/taskqueue"
	"github.com/magic-lib/go-plat-utils/conv"
	"github.com/spf13/cobra"
)

func newBulkCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "bulk [url...]",
		Short: "Process a batch of links one by one",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := args
			if file != "" {
				lines, err := readLines(file)
				if err != nil {
					return err
				}
				urls = append(urls, lines...)
			}
			q := taskqueue.New(&taskqueue.SimulatedProcessor{
				Delay:       a.cfg.Queue.Delay,
				FailureRate: a.cfg.Queue.FailureRate,
			}, taskqueue.Options{Logger: a.logger})
			if added := q.Add(urls...); len(added) == 0 {
				return fmt.Errorf("no links to process")
			}

			sum, err := q.Run(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), conv.String(map[string]any{"summary": sum, "items": q.Items()}))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read links from file, one per line")
	return cmd
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
