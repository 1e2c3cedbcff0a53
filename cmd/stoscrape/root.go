package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/John-Robertt/stoscrape/internal/app"
	"github.com/John-Robertt/stoscrape/internal/config"
	"github.com/John-Robertt/stoscrape/internal/infra/cache"
	"github.com/John-Robertt/stoscrape/internal/infra/httpx"
	"github.com/John-Robertt/stoscrape/internal/infra/logx"
	"github.com/John-Robertt/stoscrape/internal/provider"
	"github.com/John-Robertt/stoscrape/internal/provider/sto"
	"github.com/John-Robertt/stoscrape/internal/server"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitInput = 2
)

// cli 持有进程级依赖；测试通过替换 stdout/fs/newFetcher 运行命令而不访问网络。
type cli struct {
	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs
	cwd    string

	// newFetcher 为 nil 时使用 HTTP + 可选页面缓存。
	newFetcher func(eff config.EffectiveConfig, log logrus.FieldLogger) (provider.Fetcher, error)

	args config.CLIArgs
}

// usageError 表示命令行参数本身不合法（退出码 2）。
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func (c *cli) execute(argv []string) int {
	root := c.rootCmd()
	root.SetArgs(argv)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(c.stderr, "错误：%v\n", err)

	var ue *usageError
	if errors.As(err, &ue) || app.IsInputError(err) {
		return exitInput
	}
	return exitFail
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stoscrape",
		Short:         "S.to / AniWorld 目录抓取（结果以 JSON 输出到 stdout）",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.collectFlags(cmd)
			return nil
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return &usageError{err: err} })

	pf := root.PersistentFlags()
	pf.StringVar(&c.args.ConfigFile, "config", "", "配置文件路径（默认查找 ./stoscrape.{json,yaml,toml}）")
	pf.String("mode", config.DefaultMode, "站点模式：serie (s.to) | anime (aniworld.to)")
	pf.String("base-url", "", "覆盖站点 base URL（镜像域名）")
	pf.String("proxy", "", "HTTP/SOCKS5 代理 URL")
	pf.String("cache-dir", "", "页面缓存目录（为空则禁用）")
	pf.String("log-level", config.DefaultLogLevel, "日志级别：debug|info|warn|error")
	pf.Bool("log-json", false, "以 JSON 格式输出日志（stderr）")

	root.AddCommand(
		c.homeCmd(),
		c.searchCmd(),
		c.classifyCmd(),
		c.channelCmd(),
		c.episodesCmd(),
		c.episodeCmd(),
		c.serveCmd(),
	)
	return root
}

// collectFlags 把显式指定的 flag 转为 CLIArgs（保留 Set 信息以实现覆盖优先级）。
func (c *cli) collectFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("mode") {
		c.args.Mode, _ = f.GetString("mode")
		c.args.ModeSet = true
	}
	if f.Changed("base-url") {
		c.args.BaseURL, _ = f.GetString("base-url")
		c.args.BaseURLSet = true
	}
	if f.Changed("proxy") {
		c.args.ProxyURL, _ = f.GetString("proxy")
		c.args.ProxyURLSet = true
	}
	if f.Changed("cache-dir") {
		c.args.CacheDir, _ = f.GetString("cache-dir")
		c.args.CacheDirSet = true
	}
	if f.Changed("log-level") {
		c.args.LogLevel, _ = f.GetString("log-level")
		c.args.LogLevelSet = true
	}
	if f.Changed("log-json") {
		c.args.LogJSON, _ = f.GetBool("log-json")
		c.args.LogJSONSet = true
	}
	if f.Changed("listen") {
		c.args.Listen, _ = f.GetString("listen")
		c.args.ListenSet = true
	}
}

// session 是一次命令执行所需的全部组件。
type session struct {
	eff     config.EffectiveConfig
	log     *logrus.Logger
	catalog *app.Catalog
	close   func() error
}

func (c *cli) open() (*session, error) {
	eff, err := config.LoadEffective(c.fs, c.cwd, c.args)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logx.Setup(logx.Options{
		Level:  eff.LogLevel,
		JSON:   eff.LogJSON,
		File:   eff.LogFile,
		Stderr: c.stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败：%w", err)
	}

	newFetcher := c.newFetcher
	if newFetcher == nil {
		newFetcher = c.httpFetcher
	}
	f, err := newFetcher(eff, log)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	client := sto.New(eff.Site, f, log)
	return &session{
		eff:     eff,
		log:     log,
		catalog: app.NewCatalog(eff.Site, client, log),
		close:   closeLog,
	}, nil
}

func (c *cli) httpFetcher(eff config.EffectiveConfig, log logrus.FieldLogger) (provider.Fetcher, error) {
	hc, err := httpx.NewClient(eff.ProxyURL, eff.Timeout)
	if err != nil {
		return nil, &config.Error{Code: config.ErrCodeInvalid, Path: eff.ConfigFile, Err: fmt.Errorf("proxy.url 无效：%w", err)}
	}
	f := &provider.HTTPFetcher{BaseURL: eff.Site.BaseURL(), Client: hc, Log: log}
	if eff.CacheDir != "" {
		host := ""
		if u, err := url.Parse(eff.Site.BaseURL()); err == nil {
			host = u.Host
		}
		f.Cache = cache.New(c.fs, eff.CacheDir, host, eff.CacheTTL)
	}
	return f, nil
}

// run 打开 session 并执行 fn，把结果以单个 JSON 文档写到 stdout。
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, s *session) (any, error)) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	defer s.close()

	v, err := fn(cmd.Context(), s)
	if err != nil {
		return err
	}
	return c.emit(v)
}

func (c *cli) emit(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func (c *cli) homeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "首页 series 列表（最多 20 条）",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd, func(ctx context.Context, s *session) (any, error) {
				return s.catalog.Home(ctx), nil
			})
		},
	}
}

func (c *cli) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "站点搜索（单页，站点默认顺序）",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.TrimSpace(strings.Join(args, " "))
			if q == "" {
				return &usageError{err: errors.New("query 不能为空")}
			}
			return c.run(cmd, func(ctx context.Context, s *session) (any, error) {
				return s.catalog.Search(ctx, q), nil
			})
		},
	}
}

type classifyResult struct {
	URL            string `json:"url"`
	Kind           string `json:"kind"`
	Channel        bool   `json:"channel"`
	ContentDetails bool   `json:"content_details"`
}

func (c *cli) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <url>",
		Short: "判断 URL 属于 home/search/series/episode 中的哪一类",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(_ context.Context, s *session) (any, error) {
				u := args[0]
				return classifyResult{
					URL:            u,
					Kind:           s.catalog.Classify(u).String(),
					Channel:        s.catalog.IsChannelURL(u),
					ContentDetails: s.catalog.IsContentDetailsURL(u),
				}, nil
			})
		},
	}
}

func (c *cli) channelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channel <url|slug|title>",
		Short: "series 元数据（失败时退化为 slug 推导的默认值）",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session) (any, error) {
				return s.catalog.Channel(ctx, s.catalog.SeriesRef(args[0]))
			})
		},
	}
}

func (c *cli) episodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <url|slug|title>",
		Short: "逐季扫描 series 的全部 episode（最多 20 季）",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session) (any, error) {
				return s.catalog.ChannelContents(ctx, s.catalog.SeriesRef(args[0]))
			})
		},
	}
}

func (c *cli) episodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "episode <url>",
		Short: "episode 详情与 stream 列表（URL 必须符合 episode 语法）",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, s *session) (any, error) {
				return s.catalog.ContentDetails(ctx, args[0])
			})
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "以只读 JSON HTTP API 提供 catalog",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.open()
			if err != nil {
				return err
			}
			defer s.close()
			return server.New(s.catalog, s.log).ListenAndServe(cmd.Context(), s.eff.Listen)
		},
	}
	cmd.Flags().String("listen", config.DefaultListen, "监听地址")
	return cmd
}
