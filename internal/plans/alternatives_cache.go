package plans

import (
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/regain/internal/training"
)

const megabyte = 1024 * 1024

// AlternativesCache keeps alternatives results per (phase, variation). They only
// depend on the catalog, so entries live as long as the catalog document does.
type AlternativesCache struct {
	cache  *freecache.Cache
	expire int
}

// NewAlternativesCache creates the cache, expireSeconds 0 keeps entries until evicted.
func NewAlternativesCache(sizeMB, expireSeconds int) *AlternativesCache {
	if sizeMB <= 0 {
		sizeMB = 8
	}
	return &AlternativesCache{
		cache:  freecache.NewCache(sizeMB * megabyte),
		expire: expireSeconds,
	}
}

func alternativesCacheKey(variationID string, phase training.Phase) []byte {
	return []byte(fmt.Sprintf("alternatives::%s::%s", phase, variationID))
}

func (c *AlternativesCache) Get(variationID string, phase training.Phase) ([]training.PlanItem, bool) {
	data, err := c.cache.Get(alternativesCacheKey(variationID, phase))
	if err != nil {
		return nil, false
	}

	var items []training.PlanItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Errorf("failed to unmarshal cached alternatives for [%s]: %s", variationID, err)
		return nil, false
	}
	return items, true
}

func (c *AlternativesCache) Set(variationID string, phase training.Phase, items []training.PlanItem) {
	data, err := json.Marshal(items)
	if err != nil {
		log.Errorf("failed to marshal alternatives for [%s]: %s", variationID, err)
		return
	}
	if err := c.cache.Set(alternativesCacheKey(variationID, phase), data, c.expire); err != nil {
		log.Warnf("failed to cache alternatives for [%s], %d bytes: %s", variationID, len(data), err)
		return
	}
	log.Tracef("alternatives cache set for [%s]", variationID)
}

func (c *AlternativesCache) EntryCount() int64 {
	return c.cache.EntryCount()
}
