package imdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewsToken = "g4xolermtiqhejcxxxgs753i36t52q343mrswb45zkv6xl4sj"

var dieHardReviewsPage2 = dieHardReviews + "/_ajax?paginationKey=" + reviewsToken

func reviewPages() map[string]string {
	p := dieHardPages()
	p[dieHardReviews] = "reviews_1.html"
	p[dieHardReviewsPage2] = "reviews_2.html"
	return p
}

func TestReviews_TwoPagesThenStop(t *testing.T) {
	f := newStub(t, reviewPages())
	m := newTestClient(f).Movie("0095016")

	got, err := m.UserReviews().Collect(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Yippee-ki-yay", got[0].Title)
	assert.Equal(t, "The best action movie ever made.", got[0].Text)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 10, *got[0].Rating)

	assert.Equal(t, "No stars here", got[1].Title)
	assert.Nil(t, got[1].Rating, "没有评分时应为 nil，而不是 0")

	assert.Equal(t, "Still holds up", got[2].Title)
	require.NotNil(t, got[2].Rating)
	assert.Equal(t, 7, *got[2].Rating)

	assert.Equal(t, []string{dieHardReviews, dieHardReviewsPage2}, f.order)
}

func TestReviews_EmptyFirstPageStopsWithoutSecondFetch(t *testing.T) {
	p := dieHardPages()
	p[dieHardReviews] = "reviews_empty.html"
	f := newStub(t, p)
	m := newTestClient(f).Movie("0095016")

	cur := m.UserReviews()
	if cur.Next(context.Background()) {
		t.Fatalf("空页不应产出评论")
	}
	if cur.Err() != nil {
		t.Fatalf("不期望错误：%v", cur.Err())
	}
	if f.total() != 1 {
		t.Fatalf("期望只抓 1 页，实际=%v", f.order)
	}
}

func TestReviews_EarlyStopMakesNoFurtherRequests(t *testing.T) {
	f := newStub(t, reviewPages())
	m := newTestClient(f).Movie("0095016")

	cur := m.UserReviews()
	got, err := cur.Collect(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 1, cur.Pages())
	assert.Equal(t, []string{dieHardReviews}, f.order)
}

func TestReviews_FetchErrorStopsCursor(t *testing.T) {
	p := dieHardPages()
	p[dieHardReviews] = "reviews_1.html"
	f := newStub(t, p) // 第二页缺失 -> 404
	m := newTestClient(f).Movie("0095016")

	cur := m.UserReviews()
	n := 0
	for cur.Next(context.Background()) {
		n++
	}
	assert.Equal(t, 2, n)
	require.Error(t, cur.Err())
	assert.False(t, cur.Next(context.Background()), "出错后游标保持终止")
}

func TestReviews_PacingBetweenPages(t *testing.T) {
	f := newStub(t, reviewPages())
	delay := 30 * time.Millisecond
	m := New(f, WithReviewDelay(delay)).Movie("0095016")

	start := time.Now()
	got, err := m.UserReviews().Collect(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.GreaterOrEqual(t, time.Since(start), delay-5*time.Millisecond)
}

func TestReviews_FullPauseAfterSlowConsumer(t *testing.T) {
	f := newStub(t, reviewPages())
	delay := 30 * time.Millisecond
	m := New(f, WithReviewDelay(delay)).Movie("0095016")
	ctx := context.Background()

	cur := m.UserReviews()
	require.True(t, cur.Next(ctx))
	require.True(t, cur.Next(ctx))
	// 消费方处理得比间隔还慢：翻页前仍要完整等待一次。
	busy := 2 * delay
	time.Sleep(busy)
	require.True(t, cur.Next(ctx))
	require.NoError(t, cur.Err())

	require.Equal(t, []string{dieHardReviews, dieHardReviewsPage2}, f.order)
	assert.GreaterOrEqual(t, f.at[1].Sub(f.at[0]), busy+delay-5*time.Millisecond)
}

func TestReviews_PacingHonorsContext(t *testing.T) {
	f := newStub(t, reviewPages())
	m := New(f, WithReviewDelay(time.Hour)).Movie("0095016")

	ctx, cancel := context.WithCancel(context.Background())
	cur := m.UserReviews()
	require.True(t, cur.Next(ctx))
	require.True(t, cur.Next(ctx))
	cancel()
	assert.False(t, cur.Next(ctx))
	require.Error(t, cur.Err())
	assert.Equal(t, []string{dieHardReviews}, f.order)
}
