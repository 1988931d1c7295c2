package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// UserAgent 是所有出站请求默认携带的浏览器UA。
// 一些平台会直接拒绝没有UA或UA可疑的请求。
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Response 包含一次请求的状态码和完整响应体。
// 非2xx状态不作为错误返回，由调用方自行检查，
// 因为对抓取策略来说403/503本身就是有意义的信号。
type Response struct {
	StatusCode int
	Body       []byte
}

// OK 判断响应状态码是否为200
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Client 是一个带超时的出站HTTP客户端的薄封装
type Client struct {
	httpClient *http.Client
}

// NewClient 创建一个新的客户端，timeout约束单次请求的完整耗时
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get 发起一次GET请求，headers会覆盖默认请求头
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, headers)
}

// PostJSON 发起一次JSON请求体的POST请求
func (c *Client) PostJSON(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, headers)
}

func (c *Client) do(req *http.Request, headers map[string]string) (*Response, error) {
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
