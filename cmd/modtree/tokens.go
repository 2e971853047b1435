package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modtree/internal/lexer"
	"modtree/internal/source"
	"modtree/internal/treefmt"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] file.rs",
	Short: "Print the tokens of one source file",
	Long:  `Tokens lexes a single file, trivia included, without following module declarations`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	path := args[0]
	s, err := loadSettings(cmd, rootDir(path))
	if err != nil {
		return err
	}

	reg := source.NewRegistry()
	id, err := reg.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	toks, err := lexer.Lex(reg.Text(id))
	if err != nil {
		var lexErr *lexer.Error
		if errors.As(err, &lexErr) {
			start, _ := lexErr.ByteRange()
			return fmt.Errorf("%s: %s", reg.Format(reg.Range(id).Start.Plus(start)), lexErr.Message())
		}
		return err
	}
	return treefmt.Tokens(cmd.OutOrStdout(), reg, id, toks, treefmt.Options{Color: s.color, Base: rootDir(path)})
}
