package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/John-Robertt/imdb/internal/fetch"
	"github.com/John-Robertt/imdb/internal/page"
)

const (
	// ErrCodeNotFound 表示 --config 显式指定的文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// FileName 是自动发现的配置文件名（不含扩展名）：imdb.yaml / imdb.json / imdb.toml。
	FileName = "imdb"
	// EnvPrefix 是环境变量前缀：IMDB_BASE_URL、IMDB_PROXY_URL ...
	EnvPrefix = "IMDB"

	DefaultConcurrency = 4
	DefaultReviewDelay = time.Second
	DefaultLogLevel    = "info"
	DefaultOutDir      = "out"
)

// 配置键。CLI flag 通过 BindFlags 绑定到同名键上。
const (
	KeyBaseURL      = "base_url"
	KeyLanguage     = "language"
	KeyProxyURL     = "proxy.url"
	KeyTimeout      = "timeout"
	KeyRetryMax     = "retry_max"
	KeyReviewDelay  = "review_delay"
	KeyConcurrency  = "concurrency"
	KeyLogLevel     = "log_level"
	KeyFixturesDir  = "fixtures.dir"
	KeyFixturesMode = "fixtures.mode"
	KeyOutDir       = "out"
)

// flagKeys 把 CLI flag 名映射到配置键。
var flagKeys = map[string]string{
	"base-url":      KeyBaseURL,
	"language":      KeyLanguage,
	"proxy":         KeyProxyURL,
	"timeout":       KeyTimeout,
	"retry-max":     KeyRetryMax,
	"review-delay":  KeyReviewDelay,
	"concurrency":   KeyConcurrency,
	"log-level":     KeyLogLevel,
	"fixtures":      KeyFixturesDir,
	"fixtures-mode": KeyFixturesMode,
	"out":           KeyOutDir,
}

// Options 描述一次加载。
type Options struct {
	// Dir 是自动发现配置文件与 .env 的目录（通常是 cwd）。
	Dir string
	// File 非空时只读取该文件（--config），不存在即报错。
	File string
	// Flags 是已解析的 CLI flag；只有显式设置过的 flag 才会覆盖配置。
	Flags *pflag.FlagSet
}

// Effective 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type Effective struct {
	// ConfigFile 是实际读取的配置文件；没有读取任何文件时为空。
	ConfigFile string

	BaseURL  string
	Language string
	ProxyURL string
	Timeout  time.Duration
	RetryMax int

	ReviewDelay time.Duration
	Concurrency int
	LogLevel    string

	FixturesDir  string
	FixturesMode fetch.Mode

	OutDir string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 读取配置并与环境变量、CLI flag 合并为最终配置。
//
// 覆盖优先级（固定）：CLI flag（显式设置）> 环境变量 IMDB_* > 配置文件 > 内置默认。
// <Dir>/.env 中的变量只补充尚未设置的环境变量。
func Load(opts Options) (Effective, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		dir = "."
	}
	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return Effective{}, &Error{Code: ErrCodeInvalid, Path: dir, Err: err}
	}

	if err := loadDotEnv(filepath.Join(dirAbs, ".env")); err != nil {
		return Effective{}, &Error{Code: ErrCodeInvalid, Path: filepath.Join(dirAbs, ".env"), Err: err}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgPath, err := readConfigFile(v, dirAbs, opts.File)
	if err != nil {
		return Effective{}, err
	}

	if opts.Flags != nil {
		if err := BindFlags(v, opts.Flags); err != nil {
			return Effective{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	}

	eff, err := normalize(v)
	if err != nil {
		return Effective{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	eff.ConfigFile = cfgPath
	if eff.FixturesDir != "" {
		eff.FixturesDir = absCleanFrom(dirAbs, eff.FixturesDir)
	}
	eff.OutDir = absCleanFrom(dirAbs, eff.OutDir)
	return eff, nil
}

// BindFlags 把 fs 中存在的 flag 绑定到对应配置键；未出现在 fs 中的 flag 被忽略。
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("绑定 --%s 失败：%w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, page.DefaultBaseURL)
	v.SetDefault(KeyLanguage, fetch.DefaultLanguage)
	v.SetDefault(KeyProxyURL, "")
	v.SetDefault(KeyTimeout, fetch.DefaultTimeout)
	v.SetDefault(KeyRetryMax, 0)
	v.SetDefault(KeyReviewDelay, DefaultReviewDelay)
	v.SetDefault(KeyConcurrency, DefaultConcurrency)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyFixturesDir, "")
	v.SetDefault(KeyFixturesMode, string(fetch.ModeLive))
	v.SetDefault(KeyOutDir, DefaultOutDir)
}

// readConfigFile 返回实际读取的文件路径；自动发现模式下没有文件不算错误。
func readConfigFile(v *viper.Viper, dir, explicit string) (string, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		p = absCleanFrom(dir, p)
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return "", &Error{Code: ErrCodeNotFound, Path: p, Err: os.ErrNotExist}
			}
			return "", &Error{Code: ErrCodeInvalid, Path: p, Err: err}
		}
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return "", &Error{Code: ErrCodeInvalid, Path: p, Err: err}
		}
		return p, nil
	}

	v.SetConfigName(FileName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return "", nil
		}
		return "", &Error{Code: ErrCodeInvalid, Path: filepath.Join(dir, FileName), Err: err}
	}
	return v.ConfigFileUsed(), nil
}

func normalize(v *viper.Viper) (Effective, error) {
	eff := Effective{
		BaseURL:     strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Language:    strings.TrimSpace(v.GetString(KeyLanguage)),
		ProxyURL:    strings.TrimSpace(v.GetString(KeyProxyURL)),
		Timeout:     v.GetDuration(KeyTimeout),
		RetryMax:    v.GetInt(KeyRetryMax),
		ReviewDelay: v.GetDuration(KeyReviewDelay),
		Concurrency: v.GetInt(KeyConcurrency),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		FixturesDir: strings.TrimSpace(v.GetString(KeyFixturesDir)),
		OutDir:      strings.TrimSpace(v.GetString(KeyOutDir)),
	}

	u, err := url.Parse(eff.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Effective{}, fmt.Errorf("base_url 无效：%q", eff.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Effective{}, fmt.Errorf("base_url 必须是 http/https：%q", eff.BaseURL)
	}

	if eff.ProxyURL != "" {
		if _, err := url.Parse(eff.ProxyURL); err != nil {
			return Effective{}, fmt.Errorf("proxy.url 无效：%w", err)
		}
	}
	if eff.Language == "" {
		eff.Language = fetch.DefaultLanguage
	}
	if eff.Timeout <= 0 {
		eff.Timeout = fetch.DefaultTimeout
	}
	if eff.RetryMax < 0 {
		return Effective{}, fmt.Errorf("retry_max 不能为负数：%d", eff.RetryMax)
	}
	if eff.ReviewDelay < 0 {
		return Effective{}, fmt.Errorf("review_delay 不能为负数：%s", eff.ReviewDelay)
	}

	// 范围 [1, 32]；超出截断。
	if eff.Concurrency == 0 {
		eff.Concurrency = DefaultConcurrency
	}
	if eff.Concurrency < 1 {
		eff.Concurrency = 1
	}
	if eff.Concurrency > 32 {
		eff.Concurrency = 32
	}

	if _, err := zapcore.ParseLevel(eff.LogLevel); err != nil {
		return Effective{}, fmt.Errorf("log_level 无效：%q", eff.LogLevel)
	}

	mode, err := fetch.ParseMode(v.GetString(KeyFixturesMode))
	if err != nil {
		return Effective{}, err
	}
	if mode != fetch.ModeLive && eff.FixturesDir == "" {
		return Effective{}, fmt.Errorf("fixtures.mode=%s 但 fixtures.dir 为空", mode)
	}
	eff.FixturesMode = mode

	if eff.OutDir == "" {
		eff.OutDir = DefaultOutDir
	}
	return eff, nil
}

// loadDotEnv 读取 .env（可选）；已存在的环境变量不会被覆盖。
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}
