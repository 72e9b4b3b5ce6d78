package domain

// TitleMeta 是一个作品的结构化快照（用于导出 JSON / NFO）。
//
// 约束：
// - Website 写入 reference 页 URL（也是来源标记）
// - 字段缺失允许为空（指针字段为 nil 表示页面上不存在），但结构必须稳定
type TitleMeta struct {
	ID    TitleID `json:"id"`
	Title string  `json:"title"`
	Year  int     `json:"year,omitempty"`

	Plot        string `json:"plot,omitempty"`
	PlotSummary string `json:"plot_summary,omitempty"`
	Tagline     string `json:"tagline,omitempty"`

	Genres    []string `json:"genres"`
	Languages []string `json:"languages"`
	Countries []string `json:"countries"`
	Companies []string `json:"companies"`

	RuntimeM    int    `json:"runtime_minutes,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	MPAA        string `json:"mpaa,omitempty"`

	Directors []string     `json:"directors"`
	Writers   []string     `json:"writers"`
	Cast      []CastMember `json:"cast"`

	Rating    *float64 `json:"rating,omitempty"`
	Votes     *int     `json:"votes,omitempty"`
	Metascore *int     `json:"metascore,omitempty"`

	PosterURL    string `json:"poster_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	TrailerURL   string `json:"trailer_url,omitempty"`
	Website      string `json:"website"`
}

// CastMember 把演员与角色配对（按页面顺序）。
type CastMember struct {
	ID        PersonID `json:"id,omitempty"`
	Name      string   `json:"name"`
	Character string   `json:"character,omitempty"`
}
