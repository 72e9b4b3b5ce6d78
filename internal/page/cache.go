package page

import "context"

// Fetcher 负责"URL -> 已解析 Document"（纯 I/O + 解析，自身不缓存）。
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// Cache 是单个实体的惰性文档缓存：每个 Key 在实体生命周期内最多抓取一次。
//
// 约束：
// - 每个 Key 至多一个条目；不做淘汰（只在 Invalidate 时删除）
// - 抓取失败不写入缓存（下次调用会重新抓取）
// - 非并发安全：一个实体只应由一个 goroutine 使用
type Cache struct {
	fetcher Fetcher
	urlFor  func(Key) string
	docs    map[Key]*Document

	// OnLookup 在每次 Get 时回调（hit=true 表示未触发 I/O），可为空。
	OnLookup func(kind Kind, hit bool)
}

// NewCache 构造空缓存；urlFor 决定 Key 对应的页面 URL。
func NewCache(f Fetcher, urlFor func(Key) string) *Cache {
	return &Cache{
		fetcher: f,
		urlFor:  urlFor,
		docs:    make(map[Key]*Document),
	}
}

// Get 返回 key 对应的文档；首次访问时抓取并缓存。
func (c *Cache) Get(ctx context.Context, key Key) (*Document, error) {
	if d, ok := c.docs[key]; ok {
		c.observe(key.Kind, true)
		return d, nil
	}
	c.observe(key.Kind, false)

	d, err := c.fetcher.Fetch(ctx, c.urlFor(key))
	if err != nil {
		return nil, err
	}
	c.docs[key] = d
	return d, nil
}

// URL 返回 key 对应的页面 URL（不触发抓取）。
func (c *Cache) URL(key Key) string { return c.urlFor(key) }

// Invalidate 删除指定 Kind 的全部条目；不传参数时清空整个缓存。
func (c *Cache) Invalidate(kinds ...Kind) {
	if len(kinds) == 0 {
		clear(c.docs)
		return
	}
	drop := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		drop[k] = struct{}{}
	}
	for key := range c.docs {
		if _, ok := drop[key.Kind]; ok {
			delete(c.docs, key)
		}
	}
}

// Len 返回当前缓存的文档数。
func (c *Cache) Len() int { return len(c.docs) }

func (c *Cache) observe(kind Kind, hit bool) {
	if c.OnLookup != nil {
		c.OnLookup(kind, hit)
	}
}
