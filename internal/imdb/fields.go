package imdb

// Field 是字段缓存的键。
type Field string

const (
	FieldTitle           Field = "title"
	FieldYear            Field = "year"
	FieldPosterThumbnail Field = "poster_thumbnail"
)

// Fields 是实体的字段缓存：已知（预置或已计算）的值。
//
// 约束：
// - 生产者可以在任何 I/O 之前 Set（例如 known-for 列表预置 title/year/poster）
// - 访问器先查这里，命中就不做 I/O
// - 只缓存"存在"的值；缺失不入缓存
type Fields struct {
	m map[Field]any
}

func (f *Fields) Set(k Field, v any) {
	if f.m == nil {
		f.m = make(map[Field]any)
	}
	f.m[k] = v
}

func (f *Fields) Get(k Field) (any, bool) {
	v, ok := f.m[k]
	return v, ok
}

func (f *Fields) Delete(ks ...Field) {
	for _, k := range ks {
		delete(f.m, k)
	}
}

func (f *Fields) Clear() { clear(f.m) }

func (f *Fields) Len() int { return len(f.m) }

// memo 先查字段缓存，未命中时调用 load，并把存在的结果写回。
func memo[T any](f *Fields, k Field, load func() (T, bool, error)) (T, bool, error) {
	if v, ok := f.m[k]; ok {
		if t, ok := v.(T); ok {
			return t, true, nil
		}
	}
	v, ok, err := load()
	if err != nil || !ok {
		return v, ok, err
	}
	f.Set(k, v)
	return v, true, nil
}
