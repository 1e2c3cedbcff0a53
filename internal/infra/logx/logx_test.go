package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetup_TextToStderr(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := Setup(Options{Level: logrus.WarnLevel, Stderr: &buf})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	defer closeFn()

	log.Info("不应输出")
	log.WithField("op", "series").Warn("降级")

	out := buf.String()
	if strings.Contains(out, "不应输出") {
		t.Fatalf("低于 warn 的日志不应输出：%q", out)
	}
	if !strings.Contains(out, "op=series") || !strings.Contains(out, "降级") {
		t.Fatalf("输出不符合预期：%q", out)
	}
}

func TestSetup_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := Setup(Options{Level: logrus.InfoLevel, JSON: true, Stderr: &buf})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	defer closeFn()

	log.WithField("slug", "dark").Info("ok")

	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("期望 JSON 行，实际 %q：%v", buf.String(), err)
	}
	if m["slug"] != "dark" || m["msg"] != "ok" {
		t.Fatalf("JSON 字段不符合预期：%v", m)
	}
}

func TestSetup_File(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "stoscrape.log")
	log, closeFn, err := Setup(Options{Level: logrus.InfoLevel, File: path, Stderr: &buf})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	log.Info("写入文件")
	if err := closeFn(); err != nil {
		t.Fatalf("关闭失败：%v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败：%v", err)
	}
	if !strings.Contains(string(b), "写入文件") || !strings.Contains(buf.String(), "写入文件") {
		t.Fatalf("日志应同时写入文件与 stderr")
	}
}
