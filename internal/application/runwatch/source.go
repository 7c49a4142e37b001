package runwatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"copystudio-api/internal/config"
	apperrors "copystudio-api/pkg/errors"
)

const maxRunsResponseBytes = 8 << 20

// HTTPRunSource 从业务后端拉取运行列表
type HTTPRunSource struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPRunSource 创建 HTTP 来源；client 为 nil 时按 backend.timeout 创建
func NewHTTPRunSource(backend config.BackendConfig, path string, client *http.Client) *HTTPRunSource {
	if client == nil {
		timeout := backend.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPRunSource{
		client: client,
		url:    strings.TrimRight(backend.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		token:  backend.Token,
	}
}

// URL 请求地址
func (s *HTTPRunSource) URL() string {
	return s.url
}

func (s *HTTPRunSource) FetchRuns(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.ErrUpstreamFailed.WithError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRunsResponseBytes))
	if err != nil {
		return nil, apperrors.ErrUpstreamFailed.WithError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.ErrUpstreamFailed.WithDetail(fmt.Sprintf("GET %s: status %d", s.url, resp.StatusCode))
	}
	return body, nil
}
