package brainfuck

import (
	"fmt"
	"io"
	"strings"
)

const dumpIndentWidth = 4

// Dump writes the program as an indented tree, one instruction per line.
func (o Optimized) Dump(out io.Writer) error {
	return dumpInstrs(out, o, 0)
}

func dumpInstrs(out io.Writer, instrs []Instr, indent int) error {
	for _, in := range instrs {
		var err error
		pad := indent * dumpIndentWidth
		switch in.Kind {
		case Loop:
			if _, err = fmt.Fprintf(out, "%*s%v\n", pad, "", in.Kind); err == nil {
				err = dumpInstrs(out, in.Body, indent+1)
			}
		case MultiplyAdd:
			terms := make([]string, len(in.Terms))
			for i, t := range in.Terms {
				terms[i] = fmt.Sprintf("%+d*%d", t.Offset, t.Factor)
			}
			_, err = fmt.Fprintf(out, "%*s%v [%s]\n", pad, "", in.Kind, strings.Join(terms, " "))
		case Output, Input:
			_, err = fmt.Fprintf(out, "%*s%v\n", pad, "", in.Kind)
		default:
			_, err = fmt.Fprintf(out, "%*s%v %d\n", pad, "", in.Kind, in.Delta)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Dump writes the compacted program in the same layout as Optimized.Dump.
func (c Compacted) Dump(out io.Writer) error {
	return c.Lower().Dump(out)
}
