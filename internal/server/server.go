// Package server 把 catalog 暴露为只读 JSON HTTP API。
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/John-Robertt/stoscrape/internal/app"
	"github.com/John-Robertt/stoscrape/internal/domain"
)

// Server 持有 catalog 与 logger；路由在 Handler 中一次性构建。
type Server struct {
	Catalog *app.Catalog
	Log     logrus.FieldLogger
}

func New(c *app.Catalog, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{Catalog: c, Log: log}
}

// Handler 返回挂好全部路由的 http.Handler。
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/home", s.handleHome).Methods(http.MethodGet)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/search/suggestions", s.handleSuggestions).Methods(http.MethodGet)
	api.HandleFunc("/search/capabilities", s.handleCapabilities).Methods(http.MethodGet)
	api.HandleFunc("/search/channels", s.handleSearchChannels).Methods(http.MethodGet)
	api.HandleFunc("/search/contents", s.handleSearchContents).Methods(http.MethodGet)
	api.HandleFunc("/classify", s.handleClassify).Methods(http.MethodGet)
	api.HandleFunc("/channel", s.handleChannel).Methods(http.MethodGet)
	api.HandleFunc("/contents", s.handleContents).Methods(http.MethodGet)
	api.HandleFunc("/details", s.handleDetails).Methods(http.MethodGet)
	api.HandleFunc("/comments", s.handleComments).Methods(http.MethodGet)
	api.HandleFunc("/comments/sub", s.handleSubComments).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// ListenAndServe 启动 HTTP 服务，ctx 取消时优雅退出。
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.Log.WithField("addr", addr).Info("HTTP API 已启动")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.Log.WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", rw.status).
			WithField("dur_ms", time.Since(started).Milliseconds()).
			Debug("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.Home(r.Context()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := requireParam(w, r, "q")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Catalog.Search(r.Context(), q))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.SearchSuggestions(r.Context(), r.URL.Query().Get("q")))
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.SearchCapabilities())
}

func (s *Server) handleSearchChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.SearchChannels(r.Context(), r.URL.Query().Get("q")))
}

func (s *Server) handleSearchContents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.Catalog.SearchChannelContents(r.Context(), q.Get("url"), q.Get("q"))
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type classifyResponse struct {
	URL            string `json:"url"`
	Kind           string `json:"kind"`
	Channel        bool   `json:"channel"`
	ContentDetails bool   `json:"content_details"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	u, ok := requireParam(w, r, "url")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, classifyResponse{
		URL:            u,
		Kind:           s.Catalog.Classify(u).String(),
		Channel:        s.Catalog.IsChannelURL(u),
		ContentDetails: s.Catalog.IsContentDetailsURL(u),
	})
}

func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	u, ok := requireParam(w, r, "url")
	if !ok {
		return
	}
	ch, err := s.Catalog.Channel(r.Context(), u)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	u, ok := requireParam(w, r, "url")
	if !ok {
		return
	}
	page, err := s.Catalog.ChannelContents(r.Context(), u)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	u, ok := requireParam(w, r, "url")
	if !ok {
		return
	}
	d, err := s.Catalog.ContentDetails(r.Context(), u)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.Comments(r.Context(), r.URL.Query().Get("url")))
}

// handleSubComments 以 id/url 标识父评论。
func (s *Server) handleSubComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	parent := domain.Comment{
		ID:  domain.PlatformID{Platform: s.Catalog.Site.Platform(), Value: q.Get("id")},
		URL: q.Get("url"),
	}
	writeJSON(w, http.StatusOK, s.Catalog.SubComments(r.Context(), parent))
}

// writeCatalogError 把 catalog 错误映射为 HTTP 状态码：
// 输入错误 400，不支持 501，其它 500。
func (s *Server) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case app.IsInputError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		s.Log.WithError(err).Error("catalog 调用失败")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		writeError(w, http.StatusBadRequest, "缺少参数 "+name)
		return "", false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
