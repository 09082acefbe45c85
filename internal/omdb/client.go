// Package omdb 封装对 OMDb 电影元数据服务的按片名查询。
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/valyala/fasthttp"
)

const (
	DefaultURL = "http://www.omdbapi.com/"

	notApplicable = "N/A"
	defaultPlot   = "No description available."
)

// ErrNotFound OMDb 明确返回未找到该片名
var ErrNotFound = errors.New("omdb: movie not found")

// ProviderError 查询失败：网络不可达、非 200 状态或无法解析的响应
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("omdb: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("omdb: request failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Movie 归一化后的电影元数据
type Movie struct {
	Title    string
	Year     *int32
	Rating   *float64
	Poster   string
	Director string
	Genre    string
	Plot     string
}

type Config struct {
	APIKey string
	URL    string
}

type Client struct {
	apiKey string
	url    string
	http   *fasthttp.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey: cfg.APIKey,
		url:    url,
		http:   &fasthttp.Client{Name: "movieweb"},
		logger: logger,
	}
}

// response OMDb 返回的 JSON 结构，只取用到的字段
type response struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	Director   string `json:"Director"`
	Genre      string `json:"Genre"`
	Plot       string `json:"Plot"`
}

// FetchMovie 按片名查询一次 OMDb
func (c *Client) FetchMovie(ctx context.Context, title string) (*Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProviderError{Err: err}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	args := req.URI().QueryArgs()
	args.Set("apikey", c.apiKey)
	args.Set("t", title)

	c.logger.Debug("fetching from omdb", "title", title)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		c.logger.Warn("omdb returned unexpected status", "title", title, "status", status)
		return nil, &ProviderError{StatusCode: status}
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if body.Response != "True" {
		c.logger.Info("omdb says not found", "title", title, "error", body.Error)
		return nil, ErrNotFound
	}

	return normalize(body), nil
}

func normalize(body response) *Movie {
	movie := &Movie{
		Title:    clean(body.Title),
		Year:     ParseYear(body.Year),
		Rating:   ParseRating(body.ImdbRating),
		Poster:   clean(body.Poster),
		Director: clean(body.Director),
		Genre:    clean(body.Genre),
		Plot:     clean(body.Plot),
	}

	if movie.Plot == "" {
		movie.Plot = defaultPlot
	}

	return movie
}

// clean 去除首尾空白，并把 "N/A" 视为空值
func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == notApplicable {
		return ""
	}
	return s
}
