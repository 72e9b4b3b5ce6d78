package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version 在发布构建时通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version
			if v == "dev" {
				if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
					v = bi.Main.Version
				}
			}
			_, err := fmt.Fprintf(a.stdout, "imdb %s\n", v)
			return err
		},
	}
}
