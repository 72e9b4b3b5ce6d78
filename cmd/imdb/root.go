package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/John-Robertt/imdb/internal/config"
	"github.com/John-Robertt/imdb/internal/fetch"
	"github.com/John-Robertt/imdb/internal/imdb"
	"github.com/John-Robertt/imdb/internal/infra/fixture"
	"github.com/John-Robertt/imdb/internal/infra/logx"
	"github.com/John-Robertt/imdb/internal/page"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// exitError 让子命令指定退出码（例如导出有失败条目时返回 1，但不打印额外错误）。
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

// app 是一次命令执行的运行时依赖；在 PersistentPreRunE 中按最终配置构造。
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	output     string
	metrics    bool
	logFormat  string

	eff     config.Effective
	log     *zap.Logger
	reg     *prometheus.Registry
	fetcher *fetch.Client
	client  *imdb.Client
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.metrics && a.reg != nil {
		a.printMetrics()
	}
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if code := config.Code(err); code != "" {
		fmt.Fprintf(stderr, "配置错误：%v\n", err)
		return 2
	}
	fmt.Fprintf(stderr, "错误：%v\n", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "imdb",
		Short:         "按需抓取 IMDb 页面并输出结构化信息",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "配置文件路径（默认自动发现 ./imdb.yaml|json|toml）")
	pf.String("base-url", "", "站点根地址（默认 "+page.DefaultBaseURL+"）")
	pf.String("language", "", "Accept-Language（默认 "+fetch.DefaultLanguage+"）")
	pf.String("proxy", "", "HTTP 代理，例如 http://127.0.0.1:7890")
	pf.Duration("timeout", 0, "单次请求超时")
	pf.Int("retry-max", 0, "GET 的有界重试次数（默认不重试）")
	pf.Duration("review-delay", 0, "用户评论翻页间隔（0 表示不等待）")
	pf.Int("concurrency", 0, "export 的并发数（1..32）")
	pf.String("log-level", "", "日志级别：debug|info|warn|error")
	pf.StringVar(&a.logFormat, "log-format", string(logx.FormatConsole), "日志格式：console|json")
	pf.String("fixtures", "", "fixture 目录（record/replay 模式使用）")
	pf.String("fixtures-mode", "", "fixture 模式：live|record|replay")
	pf.String("out", "", "export 输出目录")
	pf.StringVarP(&a.output, "output", "o", outputTable, "输出格式：table|json")
	pf.BoolVar(&a.metrics, "metrics", false, "结束时在 stderr 打印抓取与缓存指标")

	root.AddCommand(
		newTitleCmd(a),
		newPersonCmd(a),
		newReviewsCmd(a),
		newSeasonCmd(a),
		newChartCmd(a, "top", "Top 250 榜单", (*imdb.Client).Top250),
		newChartCmd(a, "boxoffice", "北美票房榜", (*imdb.Client).BoxOffice),
		newSearchCmd(a),
		newExportCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	switch a.output {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("--output 只能是 table 或 json，实际是 %q", a.output)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("读取当前目录失败：%w", err)
	}
	eff, err := config.Load(config.Options{Dir: cwd, File: a.configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	a.eff = eff

	log, err := logx.New(eff.LogLevel, logx.Format(strings.ToLower(a.logFormat)), a.stderr)
	if err != nil {
		return err
	}
	a.log = log
	if eff.ConfigFile != "" {
		log.Debug("config loaded", zap.String("file", eff.ConfigFile))
	}

	a.reg = prometheus.NewRegistry()
	m := fetch.NewMetrics(a.reg)

	var store *fixture.Store
	if eff.FixturesMode != fetch.ModeLive {
		s := fixture.New(eff.FixturesDir, eff.FixturesMode == fetch.ModeReplay)
		store = &s
	}
	f, err := fetch.New(fetch.Options{
		Language: eff.Language,
		ProxyURL: eff.ProxyURL,
		Timeout:  eff.Timeout,
		RetryMax: eff.RetryMax,
		Fixtures: store,
		Mode:     eff.FixturesMode,
		Logger:   log,
		Metrics:  m,
	})
	if err != nil {
		return err
	}

	a.fetcher = f
	a.client = imdb.New(f,
		imdb.WithLocator(page.Locator{BaseURL: eff.BaseURL}),
		imdb.WithReviewDelay(eff.ReviewDelay),
		imdb.WithLogger(log),
		imdb.WithCacheObserver(func(k page.Kind, hit bool) { m.ObserveLookup(k.String(), hit) }),
	)
	return nil
}

func (a *app) jsonOutput() bool { return a.output == outputJSON }

func (a *app) emitJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(a.stdout)
	return t
}

// printMetrics 把 registry 中的计数器/直方图打印为一张表（写 stderr，不污染 stdout）。
func (a *app) printMetrics() {
	mfs, err := a.reg.Gather()
	if err != nil {
		fmt.Fprintf(a.stderr, "读取指标失败：%v\n", err)
		return
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetOutputMirror(a.stderr)
	t.AppendHeader(table.Row{"metric", "labels", "value"})
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var v any
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				v = fmt.Sprintf("count=%d sum=%.3fs", h.GetSampleCount(), h.GetSampleSum())
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			t.AppendRow(table.Row{mf.GetName(), strings.Join(labels, ","), v})
		}
	}
	t.Render()
}
