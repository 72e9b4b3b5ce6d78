package imdb

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/John-Robertt/imdb/internal/domain"
	"github.com/John-Robertt/imdb/internal/page"
)

// ReviewCursor 逐条产出用户评论，按需翻页。
//
// 约束：
// - 只在当前页耗尽、且上一页非空并给出了续页 token 时才抓下一页
// - 每次翻页前都完整等待 Client 的 review delay（从需要下一页时起算）
// - 消费方提前停止时不会再有任何请求
// - 评论页与其它页面一样进入实体的文档缓存（按 token 区分）
type ReviewCursor struct {
	t     *Movie
	limit rate.Limit

	started bool
	token   string
	done    bool
	pages   int

	batch []domain.Review
	idx   int
	cur   domain.Review
	err   error
}

// UserReviews 返回一个新游标；创建本身不做 I/O。
func (t *Movie) UserReviews() *ReviewCursor {
	limit := rate.Inf
	if d := t.c.reviewDelay; d > 0 {
		limit = rate.Every(d)
	}
	return &ReviewCursor{t: t, limit: limit}
}

// Next 前进到下一条评论；没有更多或出错时返回 false（用 Err 区分）。
func (r *ReviewCursor) Next(ctx context.Context) bool {
	for r.idx >= len(r.batch) {
		if r.err != nil || r.done {
			return false
		}
		if err := r.fetch(ctx); err != nil {
			r.err = err
			return false
		}
	}
	r.cur = r.batch[r.idx]
	r.idx++
	return true
}

// Review 返回 Next 最近一次产出的评论。
func (r *ReviewCursor) Review() domain.Review { return r.cur }

func (r *ReviewCursor) Err() error { return r.err }

// Pages 返回已抓取的页数。
func (r *ReviewCursor) Pages() int { return r.pages }

// Collect 读取至多 limit 条评论（limit<=0 表示读到底）。
func (r *ReviewCursor) Collect(ctx context.Context, limit int) ([]domain.Review, error) {
	out := []domain.Review{}
	for (limit <= 0 || len(out) < limit) && r.Next(ctx) {
		out = append(out, r.Review())
	}
	return out, r.Err()
}

func (r *ReviewCursor) fetch(ctx context.Context) error {
	if r.started {
		if err := r.pause(ctx); err != nil {
			return err
		}
	}
	r.started = true

	d, err := r.t.docs.Get(ctx, page.Key{Kind: page.Reviews, Query: r.token})
	if err != nil {
		return err
	}
	r.pages++
	r.batch, r.idx = parseReviews(d), 0

	next, _ := d.Find("div.load-more-data").First().Attr("data-key")
	next = clean(next)
	if len(r.batch) == 0 || next == "" || next == r.token {
		r.done = true
	}
	r.token = next

	r.t.c.log.Sugar().Debugw("review page",
		"title", r.t.id.String(), "page", r.pages, "reviews", len(r.batch), "more", !r.done)
	return nil
}

// pause 从此刻起等待一个完整间隔；ctx 取消时立即返回。
func (r *ReviewCursor) pause(ctx context.Context) error {
	lim := rate.NewLimiter(r.limit, 1)
	lim.Allow()
	return lim.Wait(ctx)
}

func parseReviews(d *page.Document) []domain.Review {
	out := []domain.Review{}
	d.Find("div.review-container").Each(func(_ int, s *goquery.Selection) {
		rv := domain.Review{
			Title: clean(s.Find("div.title").First().Text()),
			Text:  clean(s.Find("div.content div.text").First().Text()),
		}
		scale := s.Find("span.point-scale").First()
		if scale.Length() > 0 {
			if n, err := strconv.Atoi(clean(scale.PrevAllFiltered("span").First().Text())); err == nil {
				rv.Rating = &n
			}
		}
		out = append(out, rv)
	})
	return out
}
