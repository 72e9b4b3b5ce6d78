package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newReviewsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "reviews <tt id>",
		Short: "逐页读取用户评论（翻页之间按 review_delay 等待）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTitleArg(args[0])
			if err != nil {
				return err
			}
			cur := a.client.Movie(id).UserReviews()
			reviews, err := cur.Collect(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if a.jsonOutput() {
				return a.emitJSON(reviews)
			}
			t := a.newTable()
			t.SetTitle("%s  user reviews (%d pages)", id, cur.Pages())
			t.AppendHeader(table.Row{"#", "rating", "title", "review"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 4, WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
			})
			for i, r := range reviews {
				t.AppendRow(table.Row{i + 1, intOrDash(r.Rating), r.Title, r.Text})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "最多读取条数（<=0 表示读到最后一页）")
	return cmd
}
