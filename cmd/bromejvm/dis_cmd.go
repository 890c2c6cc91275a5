package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brome-lang/jvm"
	"github.com/brome-lang/jvm/dis"
	"github.com/brome-lang/jvm/internal/recipe"
)

func newDisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis <recipe>",
		Short: "Disassemble a function built from a recipe",
		Args:  cobra.ExactArgs(1),
		RunE:  disHandler,
	}
	cmd.Flags().String("func", "", "Function to disassemble (default: the first with a body)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	return cmd
}

func disHandler(cmd *cobra.Command, args []string) error {
	class, err := recipe.LoadFile(args[0])
	if err != nil {
		return err
	}

	name := viper.GetString("func")
	if name == "" {
		for _, fn := range class.Functions {
			if fn.Body != nil {
				name = fn.Name
				break
			}
		}
		if name == "" {
			return fmt.Errorf("class %s has no function with a body", class.Name)
		}
	}

	instructions, err := jvm.DisassembleFunction(class, name, jvm.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	format := strings.ToLower(viper.GetString("output"))
	switch format {
	case "", "text":
		dis.Print(instructions, cmd.OutOrStdout())
		return nil
	case "json":
		return printJSON(cmd.OutOrStdout(), instructionsJSON(instructions))
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

type instructionJSON struct {
	Offset   int    `json:"offset"`
	Opcode   string `json:"opcode"`
	Operands []int  `json:"operands,omitempty"`
	Info     string `json:"info,omitempty"`
}

func instructionsJSON(instructions []dis.Instruction) []instructionJSON {
	out := make([]instructionJSON, len(instructions))
	for i, in := range instructions {
		row := instructionJSON{
			Offset: in.Offset,
			Opcode: in.Name,
			Info:   in.Annotation,
		}
		for _, b := range in.Operands {
			row.Operands = append(row.Operands, int(b))
		}
		out[i] = row
	}
	return out
}
