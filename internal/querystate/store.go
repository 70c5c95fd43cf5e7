// Package querystate mantém os filtros do dashboard na query string da URL,
// que é a única fonte de verdade compartilhada entre as páginas.
package querystate

import (
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
)

// Navigator aplica uma nova localização sem recarregar a página
type Navigator interface {
	Replace(location *url.URL)
}

// NavigatorFunc adapta uma função para Navigator
type NavigatorFunc func(location *url.URL)

func (f NavigatorFunc) Replace(location *url.URL) { f(location) }

// Listener recebe o estado anterior e o novo após cada mudança
type Listener func(previous, current url.Values)

type Store struct {
	mu        sync.RWMutex
	location  *url.URL
	navigator Navigator
	defaults  map[string]string
	listeners map[int]Listener
	nextID    int
}

func New(location *url.URL, navigator Navigator, defaults map[string]string) *Store {
	if location == nil {
		location = &url.URL{Path: "/"}
	}

	d := make(map[string]string, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}

	return &Store{
		location:  cloneURL(location),
		navigator: navigator,
		defaults:  d,
		listeners: make(map[int]Listener),
	}
}

// Get retorna o valor atual da chave ou o default configurado
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(key, s.defaults[key])
}

// GetOr retorna o valor atual da chave ou o fallback informado
func (s *Store) GetOr(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.get(key, fallback)
}

func (s *Store) get(key, fallback string) string {
	values := s.location.Query()
	if _, ok := values[key]; !ok {
		return fallback
	}
	return values.Get(key)
}

// Set mescla as chaves informadas na query string. Valor nil remove a chave,
// chaves ausentes do mapa não são alteradas.
func (s *Store) Set(updates map[string]*string) *url.URL {
	s.mu.Lock()

	previous := s.location.Query()
	next := s.location.Query()
	for key, value := range updates {
		if value == nil {
			next.Del(key)
			continue
		}
		next.Set(key, *value)
	}

	location := cloneURL(s.location)
	location.RawQuery = next.Encode()
	s.location = location

	listeners := s.snapshotListeners()
	navigator := s.navigator
	s.mu.Unlock()

	if navigator != nil {
		navigator.Replace(cloneURL(location))
	}

	logrus.WithField("query", location.RawQuery).Debug("querystate: location updated")

	notify(listeners, previous, next)

	return cloneURL(location)
}

// Navigate substitui a localização inteira, como uma navegação externa
func (s *Store) Navigate(location *url.URL) {
	if location == nil {
		return
	}

	s.mu.Lock()
	previous := s.location.Query()
	s.location = cloneURL(location)
	current := s.location.Query()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, previous, current)
}

// Location retorna uma cópia da localização atual
func (s *Store) Location() *url.URL {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneURL(s.location)
}

// Snapshot retorna uma cópia dos parâmetros atuais
func (s *Store) Snapshot() url.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.location.Query()
}

// Subscribe registra um listener e retorna a função para removê-lo
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshotListeners() []Listener {
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	return listeners
}

func notify(listeners []Listener, previous, current url.Values) {
	for _, l := range listeners {
		l(previous, current)
	}
}

func cloneURL(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}

// Changed informa se alguma das chaves mudou entre dois snapshots
func Changed(previous, current url.Values, keys ...string) bool {
	for _, k := range keys {
		if previous.Get(k) != current.Get(k) {
			return true
		}
		_, hadKey := previous[k]
		_, hasKey := current[k]
		if hadKey != hasKey {
			return true
		}
	}
	return false
}
