package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/John-Robertt/stoscrape/internal/site"
)

const (
	// ErrCodeNotFound 表示显式指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// ConfigName 是在 cwd 下自动发现的配置文件名（扩展名任选 json/yaml/toml）。
	ConfigName = "stoscrape"
	// EnvPrefix 是环境变量前缀，例如 STOSCRAPE_PROXY_URL 对应 proxy.url。
	EnvPrefix = "STOSCRAPE"

	DefaultMode           = site.ModeSerie
	DefaultTimeoutSeconds = 20
	DefaultCacheTTLHours  = 24
	DefaultLogLevel       = "info"
	DefaultListen         = "127.0.0.1:8787"
)

// 配置键（同时也是配置文件中的字段路径）。
const (
	KeyMode           = "mode"
	KeyBaseURL        = "base_url"
	KeyProxyURL       = "proxy.url"
	KeyTimeoutSeconds = "timeout_seconds"
	KeyCacheDir       = "cache.dir"
	KeyCacheTTLHours  = "cache.ttl_hours"
	KeyLogLevel       = "log.level"
	KeyLogJSON        = "log.json"
	KeyLogFile        = "log.file"
	KeyListen         = "listen"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

var defaults = map[string]any{
	KeyMode:           DefaultMode,
	KeyBaseURL:        "",
	KeyProxyURL:       "",
	KeyTimeoutSeconds: DefaultTimeoutSeconds,
	KeyCacheDir:       "",
	KeyCacheTTLHours:  DefaultCacheTTLHours,
	KeyLogLevel:       DefaultLogLevel,
	KeyLogJSON:        false,
	KeyLogFile:        "",
	KeyListen:         DefaultListen,
}

// CLIArgs 是 CLI 暴露的覆盖项，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --log-json=false 必须能覆盖 log.json=true。
type CLIArgs struct {
	// ConfigFile 显式指定配置文件；为空时在 cwd 下查找 stoscrape.{json,yaml,toml}（可选）。
	ConfigFile string

	Mode    string
	ModeSet bool

	BaseURL    string
	BaseURLSet bool

	ProxyURL    string
	ProxyURLSet bool

	CacheDir    string
	CacheDirSet bool

	LogLevel    string
	LogLevelSet bool

	LogJSON    bool
	LogJSONSet bool

	Listen    string
	ListenSet bool
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// ConfigFile 是实际读取的配置文件路径；未读取任何文件时为空。
	ConfigFile string

	Mode string
	// Site 由 mode + base_url 构造，启动后只读。
	Site site.Site

	ProxyURL string
	Timeout  time.Duration

	// CacheDir 为空表示禁用页面缓存。
	CacheDir string
	CacheTTL time.Duration

	LogLevel logrus.Level
	LogJSON  bool
	LogFile  string

	Listen string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Path == "" {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取配置文件与环境变量，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 指定 --config：该文件必须存在
// 2) 否则在 cwd 下查找 stoscrape.{json,yaml,toml}（可选，不存在不报错）
//
// 覆盖优先级（固定）：CLI > 环境变量 STOSCRAPE_* > 配置文件 > 默认值
func LoadEffective(fs afero.Fs, cwd string, cli CLIArgs) (EffectiveConfig, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	v := newViper(fs)

	if strings.TrimSpace(cli.ConfigFile) != "" {
		cfgPath := absCleanFrom(cwdAbs, cli.ConfigFile)
		exists, err := afero.Exists(fs, cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(cwdAbs)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: v.ConfigFileUsed(), Err: err}
			}
		}
	}

	applyCLI(v, cli)
	return merge(v, cwdAbs)
}

func newViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	v.SetTypeByDefaultValue(true)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// applyCLI 把显式指定的 CLI 参数写入 viper 的最高优先级层。
func applyCLI(v *viper.Viper, cli CLIArgs) {
	if cli.ModeSet {
		v.Set(KeyMode, cli.Mode)
	}
	if cli.BaseURLSet {
		v.Set(KeyBaseURL, cli.BaseURL)
	}
	if cli.ProxyURLSet {
		v.Set(KeyProxyURL, cli.ProxyURL)
	}
	if cli.CacheDirSet {
		v.Set(KeyCacheDir, cli.CacheDir)
	}
	if cli.LogLevelSet {
		v.Set(KeyLogLevel, cli.LogLevel)
	}
	if cli.LogJSONSet {
		v.Set(KeyLogJSON, cli.LogJSON)
	}
	if cli.ListenSet {
		v.Set(KeyListen, cli.Listen)
	}
}

// merge 校验并规范化 viper 中的最终取值。相对的 cache.dir 无论来自哪一层，都以 cwd 为基准。
func merge(v *viper.Viper, cwdAbs string) (EffectiveConfig, error) {
	cfgPath := v.ConfigFileUsed()
	invalid := func(err error) (EffectiveConfig, error) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	mode := strings.ToLower(strings.TrimSpace(v.GetString(KeyMode)))
	s, err := site.New(mode, v.GetString(KeyBaseURL))
	if err != nil {
		return invalid(err)
	}

	proxyURL := strings.TrimSpace(v.GetString(KeyProxyURL))
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return invalid(fmt.Errorf("proxy.url 无效：%w", err))
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return invalid(fmt.Errorf("proxy.url 只支持 http/https/socks5：%q", proxyURL))
		}
		if u.Host == "" {
			return invalid(fmt.Errorf("proxy.url 缺少 host：%q", proxyURL))
		}
	}

	timeout := v.GetInt(KeyTimeoutSeconds)
	if timeout <= 0 {
		return invalid(fmt.Errorf("timeout_seconds 必须大于 0，实际是 %d", timeout))
	}

	ttl := v.GetInt(KeyCacheTTLHours)
	if ttl < 0 {
		return invalid(fmt.Errorf("cache.ttl_hours 不能为负数，实际是 %d", ttl))
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(v.GetString(KeyLogLevel)))
	if err != nil {
		return invalid(fmt.Errorf("log.level 无效：%w", err))
	}

	cacheDir := strings.TrimSpace(v.GetString(KeyCacheDir))
	if cacheDir != "" {
		cacheDir = absCleanFrom(cwdAbs, cacheDir)
	}

	listen := strings.TrimSpace(v.GetString(KeyListen))
	if listen == "" {
		listen = DefaultListen
	}

	return EffectiveConfig{
		ConfigFile: cfgPath,
		Mode:       mode,
		Site:       s,
		ProxyURL:   proxyURL,
		Timeout:    time.Duration(timeout) * time.Second,
		CacheDir:   cacheDir,
		CacheTTL:   time.Duration(ttl) * time.Hour,
		LogLevel:   lvl,
		LogJSON:    v.GetBool(KeyLogJSON),
		LogFile:    strings.TrimSpace(v.GetString(KeyLogFile)),
		Listen:     listen,
	}, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}
