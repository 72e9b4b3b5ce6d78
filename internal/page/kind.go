package page

import (
	"fmt"
	"net/url"
)

// Kind 是实体的一个远端子页面。
// 同一实体的不同 Kind 各自独立抓取、独立缓存。
type Kind int

const (
	Reference Kind = iota
	FullCredits
	Locations
	ReleaseInfo
	PlotSummary
	Reviews
	CriticReviews
	ParentalGuide
	Apex
	Episodes
)

var kindNames = [...]string{
	Reference:     "reference",
	FullCredits:   "fullcredits",
	Locations:     "locations",
	ReleaseInfo:   "releaseinfo",
	PlotSummary:   "plotsummary",
	Reviews:       "reviews",
	CriticReviews: "criticreviews",
	ParentalGuide: "parentalguide",
	Apex:          "apex",
	Episodes:      "episodes",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Key 唯一标识实体的一个页面：Kind + 附加参数。
//
// Query 的含义随 Kind 变化：
// - Reviews：分页 token（空串表示第一页）
// - Episodes：季号
// - 其它：始终为空
type Key struct {
	Kind  Kind
	Query string
}

// K 是只有 Kind 的 Key 的简写。
func K(kind Kind) Key { return Key{Kind: kind} }

// Path 返回相对于实体根 URL 的路径（含 query string）。
func (k Key) Path() string {
	switch k.Kind {
	case Apex:
		return ""
	case Reviews:
		if k.Query == "" {
			return "reviews"
		}
		return "reviews/_ajax?paginationKey=" + url.QueryEscape(k.Query)
	case Episodes:
		return "episodes?season=" + url.QueryEscape(k.Query)
	default:
		return k.Kind.String()
	}
}
