package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/imdb/internal/app/export"
	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/infra/fsx"
)

// reportName 是导出报告在输出目录下的文件名。
const reportName = "report.json"

func newExportCmd(a *app) *cobra.Command {
	var (
		from      string
		withNFO   bool
		posters   bool
		metascore bool
		overwrite bool
		noReport  bool
	)
	cmd := &cobra.Command{
		Use:   "export [tt id...]",
		Short: "批量导出作品快照（可选写出 movie.nfo）",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := append([]string(nil), args...)
			if from != "" {
				more, err := readIDs(from, cmd.InOrStdin())
				if err != nil {
					return err
				}
				ids = append(ids, more...)
			}
			if len(ids) == 0 {
				return fmt.Errorf("没有要导出的作品 id（位置参数或 --from）")
			}

			opts := []export.Option{}
			if withNFO {
				opts = append(opts, export.WithNFO())
			}
			if posters {
				opts = append(opts, export.WithPosters(a.fetcher))
			}
			if metascore {
				opts = append(opts, export.WithMetascore())
			}
			if overwrite {
				opts = append(opts, export.WithOverwrite())
			}

			var obs export.Observer
			if f, ok := a.stderr.(*os.File); ok && isTTY(f) {
				obs = newProgressUI(a.stderr)
			}

			rr := export.Execute(cmd.Context(), a.eff, a.client, ids, obs, opts...)

			if !noReport {
				if err := writeReport(a.eff.OutDir, rr); err != nil {
					fmt.Fprintf(a.stderr, "写入 %s 失败：%v\n", reportName, err)
				}
			}
			if err := a.emitReport(rr); err != nil {
				return err
			}
			if rr.Summary.Failed > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&from, "from", "", "从文件读取 id（每行一个，# 开头为注释；- 表示 stdin）")
	f.BoolVar(&withNFO, "nfo", false, "为每个作品写出 <out>/tt<id>/movie.nfo")
	f.BoolVar(&posters, "posters", false, "下载全尺寸海报到 <out>/tt<id>/poster.jpg")
	f.BoolVar(&metascore, "metascore", false, "额外抓取 apex 页获取 Metascore")
	f.BoolVar(&overwrite, "overwrite", false, "覆盖已存在的 movie.nfo / poster.jpg")
	f.BoolVar(&noReport, "no-report", false, "不写 <out>/report.json")
	return cmd
}

func readIDs(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, strings.Fields(line)...)
	}
	return ids, sc.Err()
}

func writeReport(outDir string, rr domain.RunReport) error {
	b, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(outDir, reportName, b)
}

// emitReport：json 模式下 stdout 只输出一个 RunReport；table 模式输出失败明细。
func (a *app) emitReport(rr domain.RunReport) error {
	summary := fmt.Sprintf("完成：processed=%d failed=%d", rr.Summary.Processed, rr.Summary.Failed)
	if a.jsonOutput() {
		if err := json.NewEncoder(a.stdout).Encode(rr); err != nil {
			return err
		}
		fmt.Fprintln(a.stderr, summary)
		return nil
	}

	t := a.newTable()
	t.SetTitle(summary)
	t.AppendHeader(table.Row{"id", "status", "title / error"})
	for _, it := range rr.Items {
		detail := ""
		switch {
		case it.Status == domain.StatusProcessed && it.Meta != nil:
			detail = it.Meta.Title
		case it.ErrorCode != "":
			detail = it.ErrorCode + ": " + truncate(it.ErrorMsg, 100)
		}
		t.AppendRow(table.Row{it.ID, it.Status, detail})
	}
	t.Render()
	return nil
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
