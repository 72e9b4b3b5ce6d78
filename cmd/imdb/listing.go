package main

import (
	"context"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/imdb"
)

type collector func(*imdb.Client, context.Context) ([]*imdb.Movie, error)

func newChartCmd(a *app, name, short string, collect collector) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := collect(a.client, cmd.Context())
			if err != nil {
				return err
			}
			return a.emitListing(cmd.Context(), name, ms)
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "按标题搜索作品（精确匹配时只返回一个）",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ms, err := a.client.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.emitListing(cmd.Context(), "search", ms)
		},
	}
}

// emitListing 输出 id + 标题。精确匹配的搜索结果没有预置标题，此时会抓取其 reference 页。
func (a *app) emitListing(ctx context.Context, name string, ms []*imdb.Movie) error {
	rows := make([]domain.Listing, 0, len(ms))
	for _, m := range ms {
		title, _, err := m.Title(ctx)
		if err != nil {
			return err
		}
		rows = append(rows, domain.Listing{ID: m.ID(), Title: title})
	}

	if a.jsonOutput() {
		return a.emitJSON(rows)
	}
	t := a.newTable()
	t.SetTitle(name)
	t.AppendHeader(table.Row{"#", "id", "title"})
	for i, l := range rows {
		t.AppendRow(table.Row{i + 1, l.ID.String(), l.Title})
	}
	t.Render()
	return nil
}
