package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/aretw0/ursjoin/pkg/core"
)

// renderStats summarizes a result with one row per identifier: how many
// annotations matched, which Rfam models they hit and the best e-value.
func renderStats(res *core.Result, decorate bool) string {
	tw := table.NewWriter()
	if decorate {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"Identifier", "Matches", "Models", "Best E-value"})
	_ = res.Each(func(id string, group []core.Annotation) error {
		tw.AppendRow(table.Row{id, len(group), modelIDs(group), strconv.FormatFloat(bestEValue(group), 'g', -1, 64)})
		return nil
	})
	tw.AppendFooter(table.Row{"Total", res.Count(), strconv.Itoa(res.Len()) + " ids", ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

// modelIDs lists the distinct model ids of a group in first-seen order.
func modelIDs(group []core.Annotation) string {
	seen := make(map[string]bool, len(group))
	var ids []string
	for _, a := range group {
		if !seen[a.ModelID] {
			seen[a.ModelID] = true
			ids = append(ids, a.ModelID)
		}
	}
	return strings.Join(ids, ",")
}

func bestEValue(group []core.Annotation) float64 {
	best := group[0].EValue
	for _, a := range group[1:] {
		if a.EValue < best {
			best = a.EValue
		}
	}
	return best
}

func shouldDecorate(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
