package consumer

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Is0meone/TransitTracker/pkg/redis_client"
	"github.com/adjust/rmq/v5"
	"github.com/stretchr/testify/assert"
)

type discardConsumer struct{}

func (discardConsumer) Consume(rmq.Deliveries) {}

func TestRedisConsumer_RequiresRedis(t *testing.T) {
	consumer := RedisConsumer{
		QueueName:       "transittracker-events",
		NumberConsumers: 1,
		BatchSize:       1,
		Consumer:        discardConsumer{},
	}

	assert.Error(t, consumer.startConsumers(nil))
}

func TestHealthHandler_WithoutRedis(t *testing.T) {
	if redis_client.Connected() {
		t.Skip("redis client already configured")
	}

	recorder := httptest.NewRecorder()
	NewHealthHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
