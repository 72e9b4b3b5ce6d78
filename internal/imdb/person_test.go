package imdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nicholsonURL = base + "/name/nm0000197/"
	felliniURL   = base + "/name/nm0000019/"
)

func personPages() map[string]string {
	return map[string]string{
		nicholsonURL: "person.html",
		felliniURL:   "person_dead.html",
	}
}

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
}

func TestPerson_Accessors(t *testing.T) {
	f := newStub(t, personPages())
	p := newTestClient(f).Person("0000197")
	ctx := context.Background()

	if p.URL() != nicholsonURL {
		t.Fatalf("期望 url=%q，实际=%q", nicholsonURL, p.URL())
	}

	str := func(fn func(context.Context) (string, bool, error)) string {
		t.Helper()
		s, ok, err := fn(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		return s
	}

	assert.Equal(t, "Jack Nicholson", str(p.Name))
	assert.Equal(t, "Jack Nicholson, an American actor, producer, director and screenwriter, is a three-time Academy Award winner.", str(p.Bio))
	assert.Equal(t, "Won 3 Oscars.", str(p.AwardHighlight))
	assert.Equal(t, "Jack", str(p.Nickname))
	assert.Equal(t, "With my face, I'm going to have to be a character actor.", str(p.PersonalQuote))
	assert.Contains(t, str(p.PictureThumbnail), "MV5BMTQ3OTY0ODk0M15BMl5BanBnXkFtZTYwNzE4Njc4")

	roles, err := p.Roles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Actor", "Producer", "Writer"}, roles)

	alt, err := p.AlternativeNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jack Nickolson", "John Joseph Nicholson"}, alt)

	birth, ok, err := p.BirthDate(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(1937, 4, 22, 0, 0, 0, 0, time.UTC), birth)

	_, ok, err = p.DeathDate(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, f.calls[nicholsonURL])
}

func TestPerson_AgeLivingUsesClock(t *testing.T) {
	f := newStub(t, personPages())
	ctx := context.Background()

	before := newTestClient(f, WithClock(fixedClock(2024, time.April, 21))).Person("0000197")
	n, ok, err := before.Age(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 86, n)

	on := newTestClient(f, WithClock(fixedClock(2024, time.April, 22))).Person("0000197")
	n, _, _ = on.Age(ctx)
	assert.Equal(t, 87, n)
}

func TestPerson_AgeAtDeath(t *testing.T) {
	f := newStub(t, personPages())
	p := newTestClient(f, WithClock(fixedClock(2030, time.January, 1))).Person("0000019")

	n, ok, err := p.Age(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 73, n)
}

func TestAge_BeforeBirthdayInFinalYear(t *testing.T) {
	birth := time.Date(1920, 1, 20, 0, 0, 0, 0, time.UTC)
	if got := age(birth, time.Date(1993, 10, 31, 0, 0, 0, 0, time.UTC)); got != 73 {
		t.Fatalf("期望 73，实际=%d", got)
	}
	if got := age(birth, time.Date(1993, 1, 10, 0, 0, 0, 0, time.UTC)); got != 72 {
		t.Fatalf("期望 72，实际=%d", got)
	}
	if got := age(birth, time.Date(1993, 1, 20, 0, 0, 0, 0, time.UTC)); got != 73 {
		t.Fatalf("生日当天应已满岁，实际=%d", got)
	}
}

func TestPerson_AgeUnknownBirth(t *testing.T) {
	f := newStub(t, map[string]string{nicholsonURL: "reviews_empty.html"})
	p := newTestClient(f).Person("0000197")

	_, ok, err := p.Age(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPerson_KnownForIsSeeded(t *testing.T) {
	f := newStub(t, personPages())
	p := newTestClient(f).Person("0000197")
	ctx := context.Background()

	titles, err := p.KnownFor(ctx)
	require.NoError(t, err)
	require.Len(t, titles, 3, "缺年份/海报的条目仍然保留")

	first := titles[0]
	assert.Equal(t, "0073486", string(first.ID()))
	assert.Same(t, p, first.RelatedPerson)
	assert.Equal(t, "Randle Patrick McMurphy", first.RelatedRole)

	title, ok, err := first.Title(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "One Flew Over the Cuckoo's Nest", title)

	year, ok, err := first.Year(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1975, year)

	thumb, ok, err := first.PosterThumbnail(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, thumb, "_V1_UY98_CR0,0,67,98_AL_.jpg")

	assert.Equal(t, "Jack Torrance", titles[1].RelatedRole)

	// 年份与海报为空：不预置，留给按需抓取。
	untitled := titles[2]
	assert.Equal(t, "9999999", string(untitled.ID()))
	assert.Equal(t, "Himself", untitled.RelatedRole)
	_, seeded := untitled.fields.Get(FieldYear)
	assert.False(t, seeded)
	_, seeded = untitled.fields.Get(FieldPosterThumbnail)
	assert.False(t, seeded)
	title, ok, err = untitled.Title(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Untitled Project", title)

	// 预置字段全部命中：只有人物页被抓过。
	assert.Equal(t, []string{nicholsonURL}, f.order)
}

func TestPerson_FetchFailure(t *testing.T) {
	f := newStub(t, nil)
	p := newTestClient(f).Person("0000197")

	_, _, err := p.Name(context.Background())
	require.Error(t, err)
	known, err := p.KnownFor(context.Background())
	require.Error(t, err)
	assert.NotNil(t, known)
}
