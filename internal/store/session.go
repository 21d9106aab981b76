package store

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName gdata 的存储目录名
const AppName = "codepet"

// 存储路径常量
const (
	sessionObject   = "session"
	sessionProperty = "last"
)

// Session 两次运行之间要记住的东西
type Session struct {
	WindowX int  `yaml:"windowX"`
	WindowY int  `yaml:"windowY"`
	HasPos  bool `yaml:"hasPos"` // 是否存过窗口位置
	Clicks  int  `yaml:"clicks"` // 一共被点了多少下
}

// SessionStore 会话存储
// gdata 为 nil 时只在内存里记（降级模式）
type SessionStore struct {
	gdataManager *gdata.Manager
	session      Session
}

// Open 打开默认的 gdata 存储；失败就降级，不影响宠物运行
func Open() *SessionStore {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[SessionStore] Warning: storage unavailable: %v (memory only)", err)
		m = nil
	}
	s := NewSessionStore(m)
	if err := s.Load(); err != nil {
		log.Printf("[SessionStore] Warning: %v (using defaults)", err)
	}
	return s
}

// NewSessionStore 创建会话存储，不读盘
func NewSessionStore(m *gdata.Manager) *SessionStore {
	return &SessionStore{gdataManager: m}
}

// Load 从 gdata 读取；不存在就是空会话
func (s *SessionStore) Load() error {
	s.session = Session{}
	if s.gdataManager == nil {
		return nil
	}
	if !s.gdataManager.ObjectPropExists(sessionObject, sessionProperty) {
		return nil
	}

	data, err := s.gdataManager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	var loaded Session
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}
	s.session = loaded
	return nil
}

// Save 写回 gdata；降级模式下什么都不做
func (s *SessionStore) Save() error {
	if s.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(s.session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.gdataManager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Session() Session { return s.session }

// WindowPosition 上次的窗口位置，ok 为 false 表示没存过
func (s *SessionStore) WindowPosition() (x, y int, ok bool) {
	return s.session.WindowX, s.session.WindowY, s.session.HasPos
}

func (s *SessionStore) SetWindowPosition(x, y int) {
	s.session.WindowX = x
	s.session.WindowY = y
	s.session.HasPos = true
}

// AddClick 记一次点击
func (s *SessionStore) AddClick() {
	s.session.Clicks++
}
