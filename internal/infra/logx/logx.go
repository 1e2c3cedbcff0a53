// Package logx 按配置构造 logrus.Logger（stderr + 可选的滚动日志文件）。
//
// stdout 保留给 JSON 结果，日志永远不写 stdout。
package logx

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 14
)

// Options 是日志配置。
type Options struct {
	Level logrus.Level
	JSON  bool
	// File 非空时额外写入该文件（按大小滚动，旧文件压缩）。
	File string
	// Stderr 为 nil 时使用 os.Stderr（测试可注入）。
	Stderr io.Writer
}

// Setup 构造 logger，并返回需要在退出前调用的 closer（关闭日志文件）。
func Setup(opts Options) (*logrus.Logger, func() error, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	log := logrus.New()
	log.SetLevel(opts.Level)
	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	closer := func() error { return nil }
	out := stderr
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		fw := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(stderr, fw)
		closer = fw.Close
	}
	log.SetOutput(out)
	return log, closer, nil
}
