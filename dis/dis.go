// Package dis supports inspection of compiled tape programs by listing each
// instruction with its count, loop target and source position.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/bfvm/compiler"
	"github.com/deepnoodle-ai/bfvm/op"
	"github.com/fatih/color"
)

// Instruction represents a single compiled instruction.
type Instruction struct {
	Offset  int     `json:"offset"`
	Name    string  `json:"name"`
	Opcode  op.Code `json:"opcode"`
	Count   int     `json:"count"`
	Target  int     `json:"target"` // partner bracket, or -1
	Line    int     `json:"line"`
	Column  int     `json:"column"`
	Command string  `json:"command"`
	Depth   int     `json:"depth"` // loop nesting depth
}

// Disassemble returns a parsed representation of the given code.
func Disassemble(code *compiler.Code) []Instruction {
	instructions := make([]Instruction, 0, code.Len())
	depth := 0
	for i, tok := range code.Tokens() {
		target, ok := code.Jumps().Target(i)
		if !ok {
			target = -1
		}
		if tok.Code == op.LoopClose && depth > 0 {
			depth--
		}
		instructions = append(instructions, Instruction{
			Offset:  i,
			Name:    tok.Code.String(),
			Opcode:  tok.Code,
			Count:   int(tok.Count),
			Target:  target,
			Line:    tok.Position.LineNumber(),
			Column:  tok.Position.ColumnNumber(),
			Command: string(tok.Char()),
			Depth:   depth,
		})
		if tok.Code == op.LoopOpen {
			depth++
		}
	}
	return instructions
}

var (
	nameColor   = color.New(color.Bold)
	countColor  = color.New(color.FgYellow)
	targetColor = color.New(color.FgCyan)
	posColor    = color.New(color.FgHiBlack)
)

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

type column struct {
	header string
	align  alignment
	paint  *color.Color
}

var columns = []column{
	{"OFFSET", alignRight, nil},
	{"OPCODE", alignLeft, nameColor},
	{"COUNT", alignRight, countColor},
	{"TARGET", alignRight, targetColor},
	{"POS", alignLeft, posColor},
}

// Print a table of the given instructions to the given writer. Loop bodies
// are indented by nesting depth. Colors follow color.NoColor.
func Print(instructions []Instruction, writer io.Writer) error {
	rows := make([][]string, 0, len(instructions))
	for _, instr := range instructions {
		count := ""
		if instr.Opcode.Foldable() {
			count = strconv.Itoa(instr.Count)
		}
		target := ""
		if instr.Target >= 0 {
			target = strconv.Itoa(instr.Target)
		}
		rows = append(rows, []string{
			strconv.Itoa(instr.Offset),
			strings.Repeat("  ", instr.Depth) + instr.Name,
			count,
			target,
			fmt.Sprintf("%d:%d", instr.Line, instr.Column),
		})
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col.header)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var sb strings.Builder
	for i, col := range columns {
		writeCell(&sb, col.header, widths[i], col.align, nil, i == len(columns)-1)
	}
	for _, row := range rows {
		for i, cell := range row {
			writeCell(&sb, cell, widths[i], columns[i].align, columns[i].paint, i == len(columns)-1)
		}
	}
	_, err := io.WriteString(writer, sb.String())
	return err
}

func writeCell(sb *strings.Builder, text string, width int, align alignment, paint *color.Color, last bool) {
	pad := strings.Repeat(" ", width-len(text))
	if paint != nil && text != "" {
		text = paint.Sprint(text)
	}
	if align == alignRight {
		sb.WriteString(pad)
		sb.WriteString(text)
	} else {
		sb.WriteString(text)
		if !last {
			sb.WriteString(pad)
		}
	}
	if last {
		sb.WriteString("\n")
	} else {
		sb.WriteString("  ")
	}
}
