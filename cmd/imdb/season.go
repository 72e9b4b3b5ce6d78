package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/imdb/internal/domain"
)

type episodeView struct {
	ID      domain.TitleID `json:"id"`
	Season  int            `json:"season"`
	Number  int            `json:"number"`
	Title   string         `json:"title"`
	AirDate string         `json:"air_date,omitempty"`
}

type seasonView struct {
	SeriesID string        `json:"series_id"`
	Seasons  int           `json:"seasons"`
	Season   int           `json:"season,omitempty"`
	Episodes []episodeView `json:"episodes,omitempty"`
}

func newSeasonCmd(a *app) *cobra.Command {
	var airDates bool
	cmd := &cobra.Command{
		Use:   "season <series tt id> [n]",
		Short: "显示剧集季数；给出 n 时列出该季各集",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTitleArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s := a.client.Series(id)

			count, err := s.SeasonCount(ctx)
			if err != nil {
				return err
			}
			v := seasonView{SeriesID: id.String(), Seasons: count}

			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("季号必须是整数：%q", args[1])
				}
				season, ok, err := s.Season(ctx, n)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s 没有第 %d 季（共 %d 季）", id, n, count)
				}
				eps, err := season.Episodes(ctx)
				if err != nil {
					return err
				}
				v.Season = n
				v.Episodes = make([]episodeView, 0, len(eps))
				for _, e := range eps {
					title, _, err := e.Title(ctx)
					if err != nil {
						return err
					}
					ev := episodeView{ID: e.ID(), Season: e.SeasonNumber(), Number: e.Number(), Title: title}
					if airDates {
						// 每集一次 reference 页抓取。
						if ev.AirDate, _, err = e.AirDate(ctx); err != nil {
							return err
						}
					}
					v.Episodes = append(v.Episodes, ev)
				}
			}

			if a.jsonOutput() {
				return a.emitJSON(v)
			}
			t := a.newTable()
			t.SetTitle("%s  seasons: %d", v.SeriesID, v.Seasons)
			if v.Season > 0 {
				t.AppendHeader(table.Row{"episode", "id", "title", "air date"})
				for _, e := range v.Episodes {
					t.AppendRow(table.Row{fmt.Sprintf("S%02dE%02d", e.Season, e.Number), e.ID.String(), e.Title, e.AirDate})
				}
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&airDates, "air-dates", false, "逐集抓取播出日期")
	return cmd
}
