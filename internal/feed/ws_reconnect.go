package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"riskguard/pkg/utils"
)

// ws_reconnect.go - WebSocket соединение с автоматическим
// переподключением
//
// Разрыв соединения с биржей не должен ронять процесс: менеджер
// переподключается с exponential backoff и после подключения
// восстанавливает подписки на каналы тикеров.

// WSConfig - конфигурация переподключения
type WSConfig struct {
	InitialDelay   time.Duration // задержка перед первой повторной попыткой
	MaxDelay       time.Duration // потолок backoff
	MaxRetries     int           // 0 = без лимита
	ConnectTimeout time.Duration
	PingInterval   time.Duration
	PongTimeout    time.Duration
}

// DefaultWSConfig возвращает конфигурацию по умолчанию: 2s, 4s, 8s, 16s
func DefaultWSConfig() WSConfig {
	return WSConfig{
		InitialDelay:   2 * time.Second,
		MaxDelay:       16 * time.Second,
		MaxRetries:     0,
		ConnectTimeout: 10 * time.Second,
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
	}
}

// Состояния соединения
const (
	wsStateDisconnected int32 = iota
	wsStateConnected
	wsStateReconnecting
	wsStateClosed
)

// wsManager управляет одним WebSocket соединением
type wsManager struct {
	url    string
	config WSConfig

	conn   *websocket.Conn
	connMu sync.RWMutex

	state int32 // atomic

	// подписки, восстанавливаемые после переподключения
	subscriptions   []interface{}
	subscriptionsMu sync.RWMutex

	onMessage func([]byte)

	closeChan chan struct{}
	closeOnce sync.Once

	logger *utils.Logger
}

func newWSManager(url string, config WSConfig, onMessage func([]byte), logger *utils.Logger) *wsManager {
	return &wsManager{
		url:       url,
		config:    config,
		onMessage: onMessage,
		closeChan: make(chan struct{}),
		logger:    logger.WithComponent("ws"),
	}
}

// addSubscription регистрирует сообщение подписки; оно будет
// отправляться после каждого (пере)подключения
func (m *wsManager) addSubscription(sub interface{}) {
	m.subscriptionsMu.Lock()
	m.subscriptions = append(m.subscriptions, sub)
	m.subscriptionsMu.Unlock()
}

func (m *wsManager) isConnected() bool {
	return atomic.LoadInt32(&m.state) == wsStateConnected
}

// connect устанавливает соединение и запускает горутины чтения и ping
func (m *wsManager) connect() error {
	select {
	case <-m.closeChan:
		return fmt.Errorf("ws manager is closed")
	default:
	}

	if err := m.dial(); err != nil {
		atomic.StoreInt32(&m.state, wsStateDisconnected)
		return err
	}

	atomic.StoreInt32(&m.state, wsStateConnected)
	go m.readPump()
	go m.pingPump()

	m.logger.Info("websocket connected", utils.String("url", m.url))
	return nil
}

func (m *wsManager) dial() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.ConnectTimeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: m.config.ConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, m.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", m.url, err)
	}

	m.connMu.Lock()
	m.conn = conn
	m.connMu.Unlock()

	m.resubscribe(conn)
	return nil
}

func (m *wsManager) resubscribe(conn *websocket.Conn) {
	m.subscriptionsMu.RLock()
	subs := make([]interface{}, len(m.subscriptions))
	copy(subs, m.subscriptions)
	m.subscriptionsMu.RUnlock()

	for _, sub := range subs {
		if err := conn.WriteJSON(sub); err != nil {
			// Подписка восстановится на следующем переподключении
			m.logger.Warn("resubscribe failed", utils.Err(err))
			return
		}
	}
	if len(subs) > 0 {
		m.logger.Info("subscriptions restored", utils.Int("channels", len(subs)))
	}
}

func (m *wsManager) readPump() {
	for {
		select {
		case <-m.closeChan:
			return
		default:
		}

		m.connMu.RLock()
		conn := m.conn
		m.connMu.RUnlock()
		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			m.handleDisconnect(err)
			return
		}

		if m.onMessage != nil {
			m.onMessage(message)
		}
	}
}

func (m *wsManager) pingPump() {
	ticker := time.NewTicker(m.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.closeChan:
			return
		case <-ticker.C:
			m.connMu.RLock()
			conn := m.conn
			m.connMu.RUnlock()
			if conn == nil || !m.isConnected() {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(m.config.PongTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.handleDisconnect(err)
				return
			}
		}
	}
}

func (m *wsManager) handleDisconnect(err error) {
	select {
	case <-m.closeChan:
		return
	default:
	}

	if !atomic.CompareAndSwapInt32(&m.state, wsStateConnected, wsStateReconnecting) {
		return
	}

	m.connMu.Lock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.connMu.Unlock()

	if err != nil {
		m.logger.Warn("websocket disconnected", utils.Err(err))
	}

	go m.reconnectLoop()
}

func (m *wsManager) reconnectLoop() {
	delay := m.config.InitialDelay

	for attempt := 1; ; attempt++ {
		if m.config.MaxRetries > 0 && attempt > m.config.MaxRetries {
			m.logger.Error("max reconnect attempts reached, giving up",
				utils.Int("attempts", m.config.MaxRetries))
			atomic.StoreInt32(&m.state, wsStateDisconnected)
			return
		}

		m.logger.Info("reconnecting",
			utils.String("delay", delay.String()),
			utils.Int("attempt", attempt),
		)

		select {
		case <-m.closeChan:
			return
		case <-time.After(delay):
		}

		if err := m.dial(); err != nil {
			m.logger.Warn("reconnect failed", utils.Err(err))
			delay *= 2
			if delay > m.config.MaxDelay {
				delay = m.config.MaxDelay
			}
			continue
		}

		atomic.StoreInt32(&m.state, wsStateConnected)
		go m.readPump()
		go m.pingPump()

		m.logger.Info("websocket reconnected")
		return
	}
}

// close закрывает соединение и останавливает переподключение
func (m *wsManager) close() {
	m.closeOnce.Do(func() {
		close(m.closeChan)
	})
	atomic.StoreInt32(&m.state, wsStateClosed)

	m.connMu.Lock()
	defer m.connMu.Unlock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}
