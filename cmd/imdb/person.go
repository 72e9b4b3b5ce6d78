package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/imdb/internal/domain"
)

type personView struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Roles            []string         `json:"roles"`
	BirthDate        string           `json:"birth_date,omitempty"`
	DeathDate        string           `json:"death_date,omitempty"`
	Age              *int             `json:"age,omitempty"`
	Nickname         string           `json:"nickname,omitempty"`
	AlternativeNames []string         `json:"alternative_names"`
	Bio              string           `json:"bio,omitempty"`
	PersonalQuote    string           `json:"personal_quote,omitempty"`
	AwardHighlight   string           `json:"award_highlight,omitempty"`
	PictureThumbnail string           `json:"picture_thumbnail,omitempty"`
	KnownFor         []domain.Listing `json:"known_for"`
}

func newPersonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "person <nm id>",
		Short: "显示人物信息（人物主页）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := domain.ParsePersonID(args[0])
			if !ok {
				return fmt.Errorf("无法识别的人物 id：%q（期望 nm0000197 或 0000197）", args[0])
			}
			ctx := cmd.Context()
			p := a.client.Person(id)
			v := personView{ID: id.String()}

			var err error
			str := func(fn func() (string, bool, error)) string {
				if err != nil {
					return ""
				}
				var s string
				s, _, err = fn()
				return s
			}
			v.Name = str(func() (string, bool, error) { return p.Name(ctx) })
			v.Nickname = str(func() (string, bool, error) { return p.Nickname(ctx) })
			v.Bio = str(func() (string, bool, error) { return p.Bio(ctx) })
			v.PersonalQuote = str(func() (string, bool, error) { return p.PersonalQuote(ctx) })
			v.AwardHighlight = str(func() (string, bool, error) { return p.AwardHighlight(ctx) })
			v.PictureThumbnail = str(func() (string, bool, error) { return p.PictureThumbnail(ctx) })
			if err != nil {
				return err
			}

			if v.Roles, err = p.Roles(ctx); err != nil {
				return err
			}
			if v.AlternativeNames, err = p.AlternativeNames(ctx); err != nil {
				return err
			}
			if d, ok, err := p.BirthDate(ctx); err != nil {
				return err
			} else if ok {
				v.BirthDate = d.Format(time.DateOnly)
			}
			if d, ok, err := p.DeathDate(ctx); err != nil {
				return err
			} else if ok {
				v.DeathDate = d.Format(time.DateOnly)
			}
			if n, ok, err := p.Age(ctx); err != nil {
				return err
			} else if ok {
				v.Age = &n
			}

			known, err := p.KnownFor(ctx)
			if err != nil {
				return err
			}
			v.KnownFor = make([]domain.Listing, 0, len(known))
			for _, m := range known {
				// 标题已预置，不会触发抓取。
				title, _, err := m.Title(ctx)
				if err != nil {
					return err
				}
				v.KnownFor = append(v.KnownFor, domain.Listing{ID: m.ID(), Title: title})
			}

			if a.jsonOutput() {
				return a.emitJSON(v)
			}
			renderPerson(a, v)
			return nil
		},
	}
}

func renderPerson(a *app, v personView) {
	t := a.newTable()
	t.SetTitle("%s  %s", v.ID, v.Name)
	row := func(k, val string) {
		if strings.TrimSpace(val) != "" {
			t.AppendRow(table.Row{k, val})
		}
	}
	row("roles", strings.Join(v.Roles, ", "))
	row("born", v.BirthDate)
	row("died", v.DeathDate)
	if v.Age != nil {
		row("age", strconv.Itoa(*v.Age))
	}
	row("nickname", v.Nickname)
	row("also known as", strings.Join(v.AlternativeNames, ", "))
	row("awards", v.AwardHighlight)
	row("quote", v.PersonalQuote)
	row("picture", v.PictureThumbnail)
	t.Render()

	if len(v.KnownFor) > 0 {
		kt := a.newTable()
		kt.SetTitle("known for")
		kt.AppendHeader(table.Row{"id", "title"})
		for _, l := range v.KnownFor {
			kt.AppendRow(table.Row{l.ID.String(), l.Title})
		}
		kt.Render()
	}
}
