package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/pgn-chatbot/cmd/pgnchat/cmds"
)

func main() {
	root := &cobra.Command{
		Use:           "pgnchat",
		Short:         "PGN chat widget host, relay and reference chat API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(cmds.NewRelayCommand(), cmds.NewAPICommand())

	if err := root.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
