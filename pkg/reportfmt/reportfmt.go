// Package reportfmt renders engine reports as plain text: a summary header,
// an aligned per-context table, the emitted label trace, and optionally the
// derivation tree.
package reportfmt

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/forklab/forksim/simexec"
)

// Cfg controls rendering.
type Cfg struct {
	Color bool // ANSI-dim the headers
	Tree  bool // include the derivation tree
}

const (
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// Format renders a report. The output is a pure function of the report and
// config; rendering the same report twice yields identical text.
func Format(r *simexec.Report, cfg Cfg) string {
	var b strings.Builder

	fmt.Fprintf(&b, "total processes: %d\n", r.TotalContexts)
	fmt.Fprintf(&b, "total threads:   %d\n", r.TotalThreads)
	b.WriteByte('\n')

	writeContextTable(&b, r, cfg)

	if len(r.Emits) > 0 {
		b.WriteByte('\n')
		b.WriteString(header("emitted", cfg))
		b.WriteByte('\n')
		for _, e := range r.Emits {
			fmt.Fprintf(&b, "  [%s] process %d\n", e.Label, e.ContextID)
		}
	}

	if cfg.Tree && r.Root != nil {
		b.WriteByte('\n')
		b.WriteString(header("derivation", cfg))
		b.WriteByte('\n')
		writeTree(&b, r.Root, "")
	}

	return b.String()
}

func writeContextTable(b *strings.Builder, r *simexec.Report, cfg Cfg) {
	cols := []string{"PROCESS", "PARENT", "THREADS", "THREAD IDS"}
	rows := make([][]string, 0, len(r.Contexts))
	for _, c := range r.Contexts {
		parent := "-"
		if c.ParentID != 0 {
			parent = fmt.Sprintf("%d", c.ParentID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.ID),
			parent,
			fmt.Sprintf("%d", c.ThreadCount),
			joinInts(c.ThreadIDs),
		})
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	b.WriteString(header(line(cols), cfg))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(line(row))
		b.WriteByte('\n')
	}
}

// writeTree renders the duplication tree with box-drawing connectors.
func writeTree(b *strings.Builder, n *simexec.DerivationNode, prefix string) {
	if prefix == "" {
		fmt.Fprintf(b, "process %d (%s)\n", n.ID, threadsWord(n.Threads))
	}
	for i, child := range n.Children {
		connector := "├─"
		childPrefix := prefix + "│  "
		if i == len(n.Children)-1 {
			connector = "└─"
			childPrefix = prefix + "   "
		}
		fmt.Fprintf(b, "%s%s process %d (%s)\n", prefix, connector, child.ID, threadsWord(child.Threads))
		writeTree(b, child, childPrefix)
	}
}

func threadsWord(n int) string {
	if n == 1 {
		return "1 thread"
	}
	return fmt.Sprintf("%d threads", n)
}

func header(s string, cfg Cfg) string {
	if cfg.Color {
		return ansiDim + s + ansiReset
	}
	return s
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ",")
}
