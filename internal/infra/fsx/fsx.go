// Package fsx 提供基于 afero 的原子写入（同目录临时文件 + rename）。
package fsx

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFileAtomic 在 dir 下原子写入 name（临时文件 + rename），目标已存在则覆盖。
//
// - 临时文件必须与目标文件在同目录，以保证 rename 的原子性
// - 失败时临时文件会被清理，目标文件保持旧内容
func WriteFileAtomic(fs afero.Fs, dir, name string, data []byte) error {
	return writeFileAtomic(fs, dir, name, data, 0o644)
}

func writeFileAtomic(fs afero.Fs, dir, name string, data []byte, perm os.FileMode) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	// 前缀带 '.'，避免和正式条目混在一起。
	tmp, err := afero.TempFile(fs, dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		_ = tmp.Close()
		if !renamed {
			_ = fs.Remove(tmpName)
		}
	}()

	if err := writeAll(tmp, data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		return err
	}

	if err := fs.Rename(tmpName, dst); err != nil {
		return err
	}
	renamed = true
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
