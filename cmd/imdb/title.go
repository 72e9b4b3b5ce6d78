package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/imdb"
)

// titleView 是 title 命令的 JSON 输出（--extras 时附带子页面数据）。
type titleView struct {
	domain.TitleMeta

	Synopsis       string                `json:"synopsis,omitempty"`
	Locations      []string              `json:"filming_locations,omitempty"`
	AlsoKnownAs    []domain.AlsoKnownAs  `json:"also_known_as,omitempty"`
	CriticReviews  []domain.CriticReview `json:"critic_reviews,omitempty"`
	Advisories     []domain.Advisory     `json:"parental_advisories,omitempty"`
	StarringActors []string              `json:"starring,omitempty"`
}

func newTitleCmd(a *app) *cobra.Command {
	var metascore, extras bool
	cmd := &cobra.Command{
		Use:   "title <tt id>",
		Short: "显示作品信息（reference 页，必要时 fullcredits）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTitleArg(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			m := a.client.Movie(id)

			meta, err := m.Meta(ctx)
			if err != nil {
				return err
			}
			if metascore {
				if err := m.WithMetascore(ctx, &meta); err != nil {
					return err
				}
			}
			v := titleView{TitleMeta: meta}
			if extras {
				if err := loadExtras(cmd, m, &v); err != nil {
					return err
				}
			}

			if a.jsonOutput() {
				return a.emitJSON(v)
			}
			renderTitle(a, v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&metascore, "metascore", false, "额外抓取 apex 页获取 Metascore")
	cmd.Flags().BoolVar(&extras, "extras", false, "额外抓取 plotsummary/locations/releaseinfo/criticreviews/parentalguide 页")
	return cmd
}

func loadExtras(cmd *cobra.Command, m *imdb.Movie, v *titleView) error {
	ctx := cmd.Context()
	var err error
	if v.Synopsis, _, err = m.PlotSynopsis(ctx); err != nil {
		return err
	}
	if v.Locations, err = m.FilmingLocations(ctx); err != nil {
		return err
	}
	if v.AlsoKnownAs, err = m.AlsoKnownAs(ctx); err != nil {
		return err
	}
	if v.CriticReviews, err = m.CriticReviews(ctx); err != nil {
		return err
	}
	if v.Advisories, err = m.ParentalAdvisories(ctx); err != nil {
		return err
	}
	v.StarringActors, err = m.StarringActors(ctx)
	return err
}

func renderTitle(a *app, v titleView) {
	t := a.newTable()
	t.SetTitle("%s  %s", v.ID, v.Title)
	row := func(k string, val string) {
		if strings.TrimSpace(val) != "" {
			t.AppendRow(table.Row{k, val})
		}
	}
	if v.Year > 0 {
		row("year", strconv.Itoa(v.Year))
	}
	row("plot", v.Plot)
	row("tagline", v.Tagline)
	row("genres", strings.Join(v.Genres, ", "))
	row("languages", strings.Join(v.Languages, ", "))
	row("countries", strings.Join(v.Countries, ", "))
	if v.RuntimeM > 0 {
		row("runtime", fmt.Sprintf("%d min", v.RuntimeM))
	}
	row("release", v.ReleaseDate)
	row("mpaa", v.MPAA)
	if v.Rating != nil {
		votes := ""
		if v.Votes != nil {
			votes = fmt.Sprintf(" (%d votes)", *v.Votes)
		}
		row("rating", fmt.Sprintf("%.1f%s", *v.Rating, votes))
	}
	if v.Metascore != nil {
		row("metascore", strconv.Itoa(*v.Metascore))
	}
	row("directors", strings.Join(v.Directors, ", "))
	row("writers", strings.Join(v.Writers, ", "))
	row("companies", strings.Join(v.Companies, ", "))
	row("poster", v.PosterURL)
	row("trailer", v.TrailerURL)
	row("starring", strings.Join(v.StarringActors, ", "))
	row("locations", strings.Join(v.Locations, "; "))
	row("website", v.Website)
	t.Render()

	if len(v.Cast) > 0 {
		ct := a.newTable()
		ct.SetTitle("cast")
		ct.AppendHeader(table.Row{"#", "id", "name", "character"})
		for i, c := range v.Cast {
			id := ""
			if c.ID != "" {
				id = c.ID.String()
			}
			ct.AppendRow(table.Row{i + 1, id, c.Name, c.Character})
		}
		ct.Render()
	}
	if len(v.AlsoKnownAs) > 0 {
		at := a.newTable()
		at.SetTitle("also known as")
		at.AppendHeader(table.Row{"version", "title"})
		for _, aka := range v.AlsoKnownAs {
			at.AppendRow(table.Row{aka.Version, aka.Title})
		}
		at.Render()
	}
	if len(v.CriticReviews) > 0 {
		rt := a.newTable()
		rt.SetTitle("critic reviews")
		rt.AppendHeader(table.Row{"score", "publication", "critic"})
		for _, r := range v.CriticReviews {
			rt.AppendRow(table.Row{intOrDash(r.Score), r.Publication, r.Critic})
		}
		rt.Render()
	}
	if len(v.Advisories) > 0 {
		pt := a.newTable()
		pt.SetTitle("parental guide")
		for _, adv := range v.Advisories {
			pt.AppendRow(table.Row{adv.Category, adv.Severity})
		}
		pt.Render()
	}
}

func parseTitleArg(s string) (domain.TitleID, error) {
	id, ok := domain.ParseTitleID(s)
	if !ok {
		return "", fmt.Errorf("无法识别的作品 id：%q（期望 tt0095016 或 0095016）", s)
	}
	return id, nil
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
