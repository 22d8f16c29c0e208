package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	ledgerEventKeyPrefix = "ledger:event:"
	ledgerEventTTL       = 24 * time.Hour
)

// LedgerEventData is a balance-affecting event pushed to the admin feed.
type LedgerEventData struct {
	Type      string  `json:"type"`
	AccountID int64   `json:"account_id"`
	RecordID  int64   `json:"record_id,omitempty"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// LedgerFeedService keeps a short redis-backed trail of recent ledger events
// and streams them to admin WebSocket clients.
type LedgerFeedService struct {
	redisService *redis.RedisService
}

// LedgerFeed is wired up in app.Start before the router begins serving.
var LedgerFeed *LedgerFeedService

func InitLedgerFeed(redisService *redis.RedisService) {
	LedgerFeed = &LedgerFeedService{redisService: redisService}
}

// Publish stores an event under a timestamped key. Best-effort: a redis
// failure is logged and never bubbles up to the ledger operation.
func (f *LedgerFeedService) Publish(ctx context.Context, event LedgerEventData) {
	if f == nil {
		return
	}

	event.Timestamp = time.Now().UnixNano()

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("%v", err)
		return
	}

	key := fmt.Sprintf("%s%d", ledgerEventKeyPrefix, event.Timestamp)
	if err := f.redisService.SetKey(ctx, key, data, ledgerEventTTL); err != nil {
		logger.Error("%v", err)
	}
}

// GetRecentEvents handles GET requests for the latest ledger events.
func (f *LedgerFeedService) GetRecentEvents(c *gin.Context) {
	events, err := f.fetchRecentEvents(c.Request.Context(), 10)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if len(events) < 1 {
		c.String(404, "[]")
		return
	}
	c.JSON(200, events)
}

// LiveEventsWebsocketHandler streams new ledger events to a connected admin.
func (f *LedgerFeedService) LiveEventsWebsocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("%v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastTimestamp int64

	for range ticker.C {
		events, err := f.fetchRecentEvents(c.Request.Context(), 1)
		if err != nil {
			logger.Error("%v", err)
			return
		}

		if len(events) > 0 {
			latest := events[len(events)-1]
			if latest.Timestamp > lastTimestamp {
				if err := conn.WriteJSON(latest); err != nil {
					logger.Error("%v", err)
					return
				}
				lastTimestamp = latest.Timestamp
			}
		}
	}
}

func (f *LedgerFeedService) fetchRecentEvents(ctx context.Context, limit int) ([]LedgerEventData, error) {
	keys, err := f.redisService.Client().Keys(ctx, ledgerEventKeyPrefix+"*").Result()
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	sort.Strings(keys)
	if len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	var events []LedgerEventData
	for _, key := range keys {
		data, err := f.redisService.GetKey(ctx, key)
		if err != nil {
			return nil, logger.WrapError(err, "")
		}

		var event LedgerEventData
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			return nil, logger.WrapError(err, "")
		}

		events = append(events, event)
	}

	return events, nil
}
