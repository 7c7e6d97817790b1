package cmd

import (
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"product_draft_studio/generator"
	"product_draft_studio/registry"
)

const timeLayout = "2006-01-02 15:04"

const columnGap = "  "

// table pads every column to its display width; CJK runes take two cells.
func (a *app) table(header []string, rows [][]string) error {
	all := append([][]string{header}, rows...)
	widths := make([]int, len(header))
	for _, row := range all {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	var b strings.Builder
	for _, row := range all {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString(columnGap)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(a.out, b.String())
	return err
}

func (a *app) printDrafts(drafts []generator.Draft) {
	for i, d := range drafts {
		if i > 0 {
			a.printf("\n")
		}
		a.printf("[%s] %s\n", d.ID, d.Title)
		for _, s := range d.Slogans {
			a.printf("  - %s\n", s)
		}
		a.printf("  主图: %s\n", d.MainImage)
		if d.ReferenceImage != nil {
			a.printf("  参考素材: %s\n", *d.ReferenceImage)
		}
		if d.ReferenceLink != nil {
			a.printf("  参考链接: %s\n", *d.ReferenceLink)
		}
	}
}

func (a *app) printTemplates(items []registry.Template) error {
	if a.jsonOut {
		return a.printJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, t := range items {
		rows = append(rows, []string{t.ID, t.Name, t.Type.Label(), strings.Join(t.Tags, ","), t.CreatedAt.Local().Format(timeLayout)})
	}
	return a.table([]string{"ID", "NAME", "TYPE", "TAGS", "CREATED"}, rows)
}

func (a *app) printTasks(items []registry.Task) error {
	if a.jsonOut {
		return a.printJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, t := range items {
		rows = append(rows, []string{t.ID, t.Name, t.Status.Label(), strconv.Itoa(t.ProductCount), t.UpdatedAt.Local().Format(timeLayout)})
	}
	return a.table([]string{"ID", "NAME", "STATUS", "PRODUCTS", "UPDATED"}, rows)
}

func (a *app) printTask(t registry.Task, found bool) error {
	if !found {
		a.printf("未找到任务\n")
		return nil
	}
	return a.printTasks([]registry.Task{t})
}

func (a *app) printLibrary(items []registry.LibraryItem) error {
	if a.jsonOut {
		return a.printJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		img := "-"
		if it.MainImage != nil {
			img = *it.MainImage
		}
		rows = append(rows, []string{it.ID, it.Product.Name, it.Product.Category, it.Product.Brand, img, it.SavedAt.Local().Format(timeLayout)})
	}
	return a.table([]string{"ID", "NAME", "CATEGORY", "BRAND", "MAIN IMAGE", "SAVED"}, rows)
}

func (a *app) printStats(s registry.Stats) error {
	if a.jsonOut {
		return a.printJSON(s)
	}
	return a.table([]string{"METRIC", "VALUE"}, [][]string{
		{"商品总数", strconv.Itoa(s.TotalProducts)},
		{"草稿总数", strconv.Itoa(s.TotalDrafts)},
		{"模板总数", strconv.Itoa(s.TotalTemplates)},
		{"进行中任务", strconv.Itoa(s.ActiveTasks)},
	})
}
