// Package imdb 把 IMDb 页面建模为惰性加载的实体（Movie / Person / Series / Season / Episode）。
//
// 构造实体不做任何 I/O；只有调用需要远端数据的访问器时，才会抓取对应页面，
// 且每个实体对每种页面最多抓取一次（见 page.Cache）。
//
// 错误约定：
// - 传输失败 / 解析失败：通过 error 返回（见 fetch.IsFetchFailure / fetch.IsParseFailure）
// - 选择器没匹配到：不是错误。标量访问器返回 ok=false，列表访问器返回空切片（非 nil）
//
// 并发：实体不是并发安全的；多个 goroutine 各自持有自己的实体即可（Client 本身可共享）。
package imdb

import (
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

// DefaultReviewDelay 是用户评论翻页之间的礼貌间隔。
const DefaultReviewDelay = time.Second

// Client 持有抓取器与站点定位信息，是所有实体的工厂。
type Client struct {
	fetcher     page.Fetcher
	loc         page.Locator
	reviewDelay time.Duration
	log         *zap.Logger
	now         func() time.Time
	onLookup    func(kind page.Kind, hit bool)
}

type Option func(*Client)

// WithLocator 指定站点根地址（测试 / 镜像）。
func WithLocator(l page.Locator) Option { return func(c *Client) { c.loc = l } }

// WithReviewDelay 设置评论翻页间隔；<=0 表示不等待（测试用）。
func WithReviewDelay(d time.Duration) Option { return func(c *Client) { c.reviewDelay = d } }

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock 替换"今天"，用于计算在世人物的年龄。
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCacheObserver 在每次文档缓存查询时回调（通常接 fetch.Metrics.ObserveLookup）。
func WithCacheObserver(fn func(kind page.Kind, hit bool)) Option {
	return func(c *Client) { c.onLookup = fn }
}

// New 构造 Client。f 通常是 *fetch.Client。
func New(f page.Fetcher, opts ...Option) *Client {
	c := &Client{
		fetcher:     f,
		reviewDelay: DefaultReviewDelay,
		log:         zap.NewNop(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Locator 返回 URL 拼接规则。
func (c *Client) Locator() page.Locator { return c.loc }

func (c *Client) newCache(urlFor func(page.Key) string) *page.Cache {
	pc := page.NewCache(c.fetcher, urlFor)
	pc.OnLookup = c.onLookup
	return pc
}

// Movie 构造一个作品实体（零 I/O）。seedTitle 可选，用于预置标题。
func (c *Client) Movie(id domain.TitleID, seedTitle ...string) *Movie {
	t := &Movie{c: c, id: id, url: c.loc.Title(id, page.K(page.Reference))}
	t.docs = c.newCache(func(k page.Key) string { return c.loc.Title(id, k) })
	if len(seedTitle) > 0 {
		if s := cleanSeedTitle(seedTitle[0]); s != "" {
			t.fields.Set(FieldTitle, s)
		}
	}
	return t
}

// Person 构造一个人物实体（零 I/O）。
func (c *Client) Person(id domain.PersonID) *Person {
	p := &Person{c: c, id: id, url: c.loc.Person(id, page.K(page.Apex))}
	p.docs = c.newCache(func(k page.Key) string { return c.loc.Person(id, k) })
	return p
}
