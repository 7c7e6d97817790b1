package cmd

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"product_draft_studio/registry"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "Manage favorited templates",
	}

	var search, typ string
	list := &cobra.Command{
		Use:   "list",
		Short: "List templates, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.regs().Templates.Query(cmd.Context(), search, typ)
			if err != nil {
				return err
			}
			return a.printTemplates(items)
		},
	}
	list.Flags().StringVarP(&search, "query", "q", "", "case-insensitive search over name, title and tags")
	list.Flags().StringVarP(&typ, "type", "t", registry.FilterAll, "all, complete or partial")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.confirm("确定要删除模板 " + args[0] + " 吗？") {
				return nil
			}
			removed, err := a.regs().Templates.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if removed {
				a.printf("已删除 %s\n", args[0])
			} else {
				a.printf("未找到模板 %s\n", args[0])
			}
			return nil
		},
	}

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Export all templates as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "-" {
				_, err := a.regs().Templates.Export(cmd.Context(), a.out)
				return err
			}
			if out == "" {
				out = registry.ExportFileName(time.Now())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			n, err := a.regs().Templates.Export(cmd.Context(), f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			a.printf("已导出 %d 个模板到 %s\n", n, out)
			return nil
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", `output file, "-" for stdout (default templates-<date>.json)`)

	imp := &cobra.Command{
		Use:   "import FILE",
		Short: `Append templates from an export file ("-" for stdin)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			n, err := a.regs().Templates.Import(cmd.Context(), r)
			if err != nil {
				return err
			}
			a.printf("导入成功，共 %d 个模板\n", n)
			return nil
		},
	}

	cmd.AddCommand(list, del, export, imp)
	return cmd
}
