// Package session guarda o token bearer obtido no login, como o
// armazenamento local do navegador.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNoSession = errors.New("no active session")

// Claims são as informações lidas do token emitido pelo backend.
// A assinatura não é verificada aqui, quem valida é o backend.
type Claims struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == "admin"
}

type stored struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

type Session struct {
	mu       sync.RWMutex
	path     string
	token    string
	claims   *Claims
	onClear  []func()
	onChange []func()
}

// New cria a sessão. Quando path não é vazio, o token é persistido em
// arquivo e recarregado na inicialização.
func New(path string) *Session {
	s := &Session{path: path}
	if path != "" {
		if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).Warn("session: não foi possível carregar a sessão salva")
		}
	}
	return s
}

func (s *Session) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var st stored
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("session: decode: %w", err)
	}

	claims, err := parseClaims(st.Token)
	if err != nil {
		return err
	}

	s.token = st.Token
	s.claims = claims
	return nil
}

func (s *Session) persist() error {
	if s.path == "" {
		return nil
	}

	if s.token == "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	data, err := json.Marshal(stored{Token: s.token, SavedAt: time.Now()})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Set guarda um novo token
func (s *Session) Set(token string) error {
	claims, err := parseClaims(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	err = s.persist()
	callbacks := append([]func(){}, s.onChange...)
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}

	return err
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Claims() (*Claims, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return nil, ErrNoSession
	}
	return s.claims, nil
}

// Authenticated informa se existe um token não expirado
func (s *Session) Authenticated(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return false
	}
	if s.claims == nil || s.claims.ExpiresAt == nil {
		return true
	}
	return now.Before(s.claims.ExpiresAt.Time)
}

// Clear remove o token armazenado, por exemplo após um 401
func (s *Session) Clear() {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	s.claims = nil
	if err := s.persist(); err != nil {
		logrus.WithError(err).Warn("session: erro ao remover sessão salva")
	}
	callbacks := append([]func(){}, s.onClear...)
	s.mu.Unlock()

	if !hadToken {
		return
	}

	logrus.Info("session: sessão encerrada")
	for _, cb := range callbacks {
		cb()
	}
}

// OnClear registra um callback executado quando a sessão é encerrada
func (s *Session) OnClear(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, cb)
}

// OnChange registra um callback executado quando um novo token é salvo
func (s *Session) OnChange(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, cb)
}

// parseClaims lê as claims sem validar assinatura. Tokens opacos (não JWT)
// são aceitos sem claims.
func parseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("session: token vazio")
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		logrus.WithError(err).Debug("session: token não é um JWT, claims indisponíveis")
		return &Claims{}, nil
	}

	return claims, nil
}
