// Package kernel 是宿主内核 HTTP 接口的客户端。
package kernel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultAddress 本机内核的默认地址。
const DefaultAddress = "http://127.0.0.1:6806"

const getFilePath = "/api/file/getFile"

// ErrStatus 内核返回了既非 200 也非 202 的状态码。
var ErrStatus = errors.New("unexpected kernel status")

// KernelError 是内核以 202 返回的业务错误。
type KernelError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("kernel error %d (%s): %s", e.Code, e.Reason(), e.Msg)
}

// Reason 返回错误码的含义。
func (e *KernelError) Reason() string {
	switch e.Code {
	case -1:
		return "parameter parsing error"
	case 403:
		return "no permission, file not in workspace"
	case 404:
		return "file does not exist"
	case 405:
		return "path is a directory"
	case 500:
		return "server error"
	}
	return "unknown"
}

// Config 描述了内核连接参数。
type Config struct {
	Address string
	Token   string
	Client  *http.Client
	Logger  *logrus.Entry
}

// Client 访问内核文件接口。
type Client struct {
	config Config
}

// New 创建客户端，未设置的字段使用默认值。
func New(config Config) *Client {
	resolved := config
	if "" == resolved.Address {
		resolved.Address = DefaultAddress
	}
	resolved.Address = strings.TrimSuffix(resolved.Address, "/")
	if nil == resolved.Client {
		resolved.Client = http.DefaultClient
	}
	if nil == resolved.Logger {
		resolved.Logger = logrus.WithField("component", "kernel")
	}
	return &Client{config: resolved}
}

// GetFile 读取工作空间中 path 处的文件内容。
func (c *Client) GetFile(ctx context.Context, path string) (ret []byte, err error) {
	blob, err := json.Marshal(map[string]string{"path": path})
	if nil != err {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Address+getFilePath, bytes.NewReader(blob))
	if nil != err {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.config.Token)

	res, err := c.config.Client.Do(req)
	if nil != err {
		return
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if nil != err {
		return
	}
	switch res.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusAccepted:
		kerr := &KernelError{}
		if err = json.Unmarshal(body, kerr); nil != err {
			return nil, fmt.Errorf("decode kernel error for %s: %w", path, err)
		}
		c.config.Logger.WithFields(logrus.Fields{"path": path, "code": kerr.Code}).Warn(kerr.Reason())
		return nil, kerr
	}
	return nil, fmt.Errorf("%w %d for %s", ErrStatus, res.StatusCode, path)
}

// ReadJSON 读取 path 处的 JSON 文件并解码到 v。
func (c *Client) ReadJSON(ctx context.Context, path string, v interface{}) error {
	data, err := c.GetFile(ctx, path)
	if nil != err {
		return err
	}
	if err = json.Unmarshal(data, v); nil != err {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
