package domain

// Review 是一条用户评论。
//
// 约束：页面上没有评分时 Rating 为 nil（不是 0）。
type Review struct {
	Title  string `json:"title"`
	Text   string `json:"review"`
	Rating *int   `json:"rating,omitempty"`
}

// CriticReview 来自 criticreviews 页（Metacritic 汇总）。
type CriticReview struct {
	Publication string `json:"publication"`
	Critic      string `json:"critic,omitempty"`
	Score       *int   `json:"score,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// AlsoKnownAs 是 releaseinfo 页的一个别名（version 是地区/版本说明）。
type AlsoKnownAs struct {
	Version string `json:"version"`
	Title   string `json:"title"`
}

// Advisory 是 parentalguide 页的一个分级维度（例如 "Violence & Gore" / "Moderate"）。
type Advisory struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
}

// Listing 是榜单/搜索结果中的一行：id + 临时标题（不触发详情页抓取）。
type Listing struct {
	ID    TitleID `json:"id"`
	Title string  `json:"title"`
}
