package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"product_draft_studio/generator"
	"product_draft_studio/publisher"
	"product_draft_studio/studio"
)

// draftActions are the follow-ups generate and sample share.
type draftActions struct {
	favorite  bool
	exportDir string
	format    string
}

func (d *draftActions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&d.favorite, "favorite", false, "save every generated draft as a template")
	cmd.Flags().StringVar(&d.exportDir, "export-dir", "", "write each draft to this directory")
	cmd.Flags().StringVar(&d.format, "format", "md", "export format: md or html")
}

func (d *draftActions) run(ctx context.Context, a *app, res studio.GenerateResult) error {
	format, err := publisher.ParseFormat(d.format)
	if err != nil {
		return err
	}
	if a.jsonOut {
		if err := a.printJSON(res); err != nil {
			return err
		}
	} else {
		a.printDrafts(res.Drafts)
	}
	if len(res.Library) > 0 {
		a.note("已保存 %d 个商品到素材库\n", len(res.Library))
	}

	for _, dr := range res.Drafts {
		if d.favorite {
			tpl, err := a.svc.Favorite(ctx, dr.ID)
			if err != nil {
				return err
			}
			a.note("已收藏为模板 %s\n", tpl.ID)
		}
		if d.exportDir != "" {
			path, err := publisher.WriteDraft(d.exportDir, dr, format)
			if err != nil {
				return err
			}
			a.note("已导出 %s\n", path)
		}
	}
	return nil
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		p       generator.Product
		req     studio.GenerateRequest
		save    bool
		actions draftActions
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate drafts from product attributes, mock data or a spreadsheet",
		Example: `  studio generate --name 纯棉T恤 --brand 纯棉生活 --color 白色
  studio generate --mock --main-image https://img.example.com/a.png
  studio generate --excel products.xlsx --export-dir ./exports --format html`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Spreadsheet == "" && !req.Mock {
				req.Products = []generator.Product{p}
			}
			if cmd.Flags().Changed("save-to-library") {
				req.SaveToLibrary = &save
			}
			res, err := a.svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return actions.run(cmd.Context(), a, res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "product name (required for manual input)")
	f.StringVar(&p.Category, "category", "", `category path, e.g. "服装 > T恤"`)
	f.StringVar(&p.Brand, "brand", "", "brand")
	f.StringVar(&p.Material, "material", "", "material")
	f.StringVar(&p.Size, "size", "", "size")
	f.StringVar(&p.Color, "color", "", "color")
	f.StringVar(&p.Audience, "audience", "", "target audience")
	f.BoolVar(&req.Mock, "mock", false, "use the built-in mock import rows")
	f.StringVar(&req.Spreadsheet, "excel", "", "spreadsheet to import (.xlsx or .xls)")
	f.StringSliceVar(&req.MainImages, "main-image", nil, "main image URL, repeatable, matched to products by position")
	f.StringSliceVar(&req.ReferenceImages, "reference-image", nil, "reference image URL, repeatable")
	f.StringVar(&req.ReferenceLink, "reference-link", "", "reference link shared by every draft")
	f.BoolVar(&save, "save-to-library", true, "save products to the library (default from settings)")
	cmd.MarkFlagsMutuallyExclusive("mock", "excel")
	actions.bind(cmd)
	return cmd
}

func newSampleCmd(a *app) *cobra.Command {
	var actions draftActions
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Generate a draft from a random test product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.svc.Sample(cmd.Context())
			if err != nil {
				return err
			}
			return actions.run(cmd.Context(), a, res)
		},
	}
	actions.bind(cmd)
	return cmd
}
