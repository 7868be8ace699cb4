package leaderboard

import (
	"encoding/json"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	boardCacheKey    = "leaderboard::all"
	boardCacheExpire = 60 * 60 // seconds
)

// Cache keeps the last computed board, JSON encoded.
type Cache struct {
	cache *freecache.Cache
}

func NewCache(sizeBytes int) *Cache {
	return &Cache{
		cache: freecache.NewCache(sizeBytes),
	}
}

func (c *Cache) Get() (Board, bool) {
	boardBytes, err := c.cache.Get([]byte(boardCacheKey))
	if err != nil {
		log.Tracef("leaderboard cache miss: %s", err)
		return nil, false
	}

	var board Board
	if err := json.Unmarshal(boardBytes, &board); err != nil {
		log.Errorf("failed to unmarshal leaderboard from cache: %s", err)
		return nil, false
	}
	return board, true
}

func (c *Cache) Set(board Board) {
	boardBytes, err := json.Marshal(board)
	if err != nil {
		log.Errorf("failed to marshal leaderboard for cache: %s", err)
		return
	}
	if err := c.cache.Set([]byte(boardCacheKey), boardBytes, boardCacheExpire); err != nil {
		log.Errorf("failed to write leaderboard cache: %s", err)
	}
}

// Invalidate drops the cached board; the next read recomputes it.
func (c *Cache) Invalidate() {
	c.cache.Del([]byte(boardCacheKey))
}
