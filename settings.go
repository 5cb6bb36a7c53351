package enhance

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pafthang/enhance/editor"
	"github.com/pafthang/enhance/format"
	"github.com/sirupsen/logrus"
)

// MenuConfig 是持久化在 menu-config 下的插件配置。
type MenuConfig struct {
	OpenSideBarMemo bool   `json:"openSideBarMemo"`
	FormattingMode  string `json:"formattingMode"` // off | gentle | original
}

// DefaultMenuConfig 首次加载或读取失败时使用的配置。
var DefaultMenuConfig = MenuConfig{FormattingMode: format.Off.String()}

// Store 是插件数据的持久化存储。Load 在数据不存在时返回 nil, nil。
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// MemoryStore 内存存储。
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[name], nil
}

func (s *MemoryStore) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = append([]byte(nil), data...)
	return nil
}

// Settings 是运行期的插件配置，格式化模式每次读取都是最新值。
type Settings struct {
	mu     sync.Mutex
	config MenuConfig
	store  Store
	logger *logrus.Entry
}

// NewSettings 创建默认配置，需调用 Load 从存储中读取。
func NewSettings(store Store, logger *logrus.Entry) *Settings {
	if nil == store {
		store = NewMemoryStore()
	}
	if nil == logger {
		logger = logrus.WithField("component", "settings")
	}
	return &Settings{config: DefaultMenuConfig, store: store, logger: logger}
}

// Load 读取持久化配置。数据不存在时保持默认值，数据损坏时保持默认值并返回错误。
func (s *Settings) Load(ctx context.Context) (err error) {
	data, err := s.store.Load(ctx, editor.StorageName)
	if nil != err || 1 > len(data) {
		return
	}

	config := DefaultMenuConfig
	if err = json.Unmarshal(data, &config); nil != err {
		s.logger.WithError(err).Warn("malformed settings, using defaults")
		return
	}
	config.FormattingMode = format.ParseMode(config.FormattingMode).String()

	s.mu.Lock()
	s.config = config
	s.mu.Unlock()
	s.logger.Debugf("settings loaded [mode=%s]", config.FormattingMode)
	return
}

// Save 持久化当前配置。
func (s *Settings) Save(ctx context.Context) error {
	data, err := json.Marshal(s.Config())
	if nil != err {
		return err
	}
	return s.store.Save(ctx, editor.StorageName, data)
}

// Config 返回当前配置的副本。
func (s *Settings) Config() MenuConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *Settings) Mode() format.Mode {
	return format.ParseMode(s.Config().FormattingMode)
}

func (s *Settings) SetMode(mode format.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.FormattingMode = mode.String()
}
