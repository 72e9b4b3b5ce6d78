package fixture

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/John-Robertt/imdb/internal/infra/fsx"
)

// Store 把页面原始 HTML 按 URL 落到 <Root>/<host>/<path>.html。
//
// 用途：录制一次真实页面，之后离线回放（CLI --fixtures / 测试）。
// 这不是库的缓存层：实体的文档缓存只在内存里。
//
// 约束：
// - replay：只允许读（ReadOnly=true）
// - record：允许写（ReadOnly=false）
// - 发生重定向时，最终 URL 写入同名 .url 旁路文件
type Store struct {
	Root     string
	ReadOnly bool
}

var (
	ErrReadOnly = errors.New("fixture: read-only")
	ErrMiss     = errors.New("fixture: not recorded")
)

func New(root string, readOnly bool) Store {
	return Store{
		Root:     filepath.Clean(strings.TrimSpace(root)),
		ReadOnly: readOnly,
	}
}

var unsafeRE = regexp.MustCompile(`[^A-Za-z0-9=._-]+`)

// PathFor 返回 rawURL 对应的 fixture 文件绝对路径。
func (s Store) PathFor(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("fixture: URL 缺少 host：%q", rawURL)
	}

	host := unsafeRE.ReplaceAllString(u.Host, "_")
	p := strings.Trim(path.Clean("/"+u.Path), "/")
	if p == "" || p == "." {
		p = "index"
	}
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		// 最小约束：避免路径穿越；".." 在 Clean 之后已不会出现，这里只做字符过滤。
		segs[i] = unsafeRE.ReplaceAllString(seg, "_")
	}
	name := segs[len(segs)-1]
	if strings.HasSuffix(u.Path, "/") && len(u.Path) > 1 {
		segs = append(segs, "index")
		name = "index"
	}
	if q := u.RawQuery; q != "" {
		sq := unsafeRE.ReplaceAllString(q, "_")
		if len(sq) > 64 {
			sum := sha1.Sum([]byte(q))
			sq = hex.EncodeToString(sum[:8])
		}
		name += "__" + sq
	}
	segs[len(segs)-1] = name + ".html"

	return filepath.Join(append([]string{s.Root, host}, segs...)...), nil
}

// Read 读取已录制的页面；未录制时 ok=false 且 err=nil。
// finalURL 为录制时的最终 URL（没有重定向则等于 rawURL）。
func (s Store) Read(rawURL string) (body []byte, finalURL string, ok bool, err error) {
	p, err := s.PathFor(rawURL)
	if err != nil {
		return nil, "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", false, nil
		}
		return nil, "", false, err
	}
	finalURL = rawURL
	if u, err := os.ReadFile(p + ".url"); err == nil {
		if v := strings.TrimSpace(string(u)); v != "" {
			finalURL = v
		}
	}
	return b, finalURL, true, nil
}

// Write 原子写入页面（覆盖已有录制）。
func (s Store) Write(rawURL, finalURL string, body []byte) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	p, err := s.PathFor(rawURL)
	if err != nil {
		return err
	}
	dir, name := filepath.Split(p)
	if err := fsx.WriteFileAtomicReplace(dir, name, body); err != nil {
		return err
	}
	finalURL = strings.TrimSpace(finalURL)
	if finalURL != "" && finalURL != rawURL {
		return fsx.WriteFileAtomicReplace(dir, name+".url", []byte(finalURL+"\n"))
	}
	// 不再重定向：删掉上次录制留下的旁路文件。
	if err := os.Remove(p + ".url"); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
