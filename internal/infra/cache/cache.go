// Package cache 提供按站内路径索引的 HTML 页面缓存（afero 文件系统 + TTL）。
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/John-Robertt/stoscrape/internal/infra/fsx"
)

// Store 把站内路径映射为 <Dir>/<host>/<sha1(path)>.html。
//
// 约束：
// - 只有调用方显式 Put 的内容才会落盘（HTTPFetcher 只 Put 解析成功且有结果的页面）
// - TTL <= 0 表示永不过期
// - 过期条目视为未命中，不报错，下次 Put 时覆盖
type Store struct {
	Fs  afero.Fs
	Dir string
	TTL time.Duration

	now func() time.Time
}

// New 构造 Store；fs 为 nil 时使用真实文件系统。host 用于隔离不同站点（s.to / aniworld.to）。
func New(fs afero.Fs, dir, host string, ttl time.Duration) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir = filepath.Clean(strings.TrimSpace(dir))
	if h := sanitizeHost(host); h != "" {
		dir = filepath.Join(dir, h)
	}
	return &Store{Fs: fs, Dir: dir, TTL: ttl, now: time.Now}
}

// EntryPath 返回 path 对应的缓存文件路径。
func (s *Store) EntryPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path 不能为空")
	}
	return filepath.Join(s.Dir, entryName(path)), nil
}

// Get 读取缓存；不存在或已过期时返回 ok=false。
func (s *Store) Get(path string) ([]byte, bool, error) {
	p, err := s.EntryPath(path)
	if err != nil {
		return nil, false, err
	}
	fi, err := s.Fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if s.expired(fi.ModTime()) {
		return nil, false, nil
	}
	b, err := afero.ReadFile(s.Fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// Put 原子写入 path 对应的页面。
func (s *Store) Put(path string, body []byte) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path 不能为空")
	}
	return fsx.WriteFileAtomic(s.Fs, s.Dir, entryName(path), body)
}

func (s *Store) expired(mod time.Time) bool {
	if s.TTL <= 0 {
		return false
	}
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().Sub(mod) > s.TTL
}

func entryName(path string) string {
	sum := sha1.Sum([]byte(path))
	return hex.EncodeToString(sum[:]) + ".html"
}

// sanitizeHost 只保留 host 中的安全字符，避免路径穿越。
func sanitizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	var b strings.Builder
	for _, r := range h {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ':':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".")
}
