package export

import (
	"time"

	"github.com/John-Robertt/imdb/internal/config"
	"github.com/John-Robertt/imdb/internal/domain"
)

// Observer 用于把“导出进度/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - export 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - Observer 的实现必须并发安全：事件可能来自多个 goroutine。
type Observer interface {
	// OnStart 在 Execute 开始时调用一次。
	OnStart(total int, eff config.Effective)
	// OnItemDone 在某个作品处理完成时调用（idx 从 1 开始，按完成顺序）。
	OnItemDone(idx, total int, res domain.ItemResult, dur time.Duration)
}
