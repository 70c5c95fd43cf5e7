package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/social-dashboard/internal/config"
)

// Cache guarda respostas GET do backend por um curto período
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New cria o cache. Retorna nil, nil quando o cache está desabilitado;
// todos os métodos aceitam receptor nil.
func New(cfg config.Cache) (*Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	maxCost := int64(cfg.MaxSizeMB) * 1024 * 1024

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CounterSize),
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"max_size_mb":  cfg.MaxSizeMB,
		"ttl_seconds":  cfg.TTLSeconds,
		"counter_size": cfg.CounterSize,
	}).Info("cache: inicializado com sucesso")

	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	value, ok := c.client.Get(key)
	if !ok {
		return nil, false
	}

	body, ok := value.([]byte)
	return body, ok
}

// Set armazena o corpo usando o tamanho em bytes como custo
func (c *Cache) Set(key string, body []byte) bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.SetWithTTL(key, body, int64(len(body))+1, c.ttl)
}

// Clear descarta todas as entradas, usado ao trocar de sessão
func (c *Cache) Clear() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Clear()
}

// Wait bloqueia até que as escritas pendentes sejam aplicadas
func (c *Cache) Wait() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Wait()
}

func (c *Cache) Close() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Close()
	logrus.Info("cache: encerrado")
}
