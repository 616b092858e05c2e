package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	up   = PingerFunc(func(context.Context) error { return nil })
	down = PingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })
)

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		redis    Pinger
		code     int
		database string
		cache    string
	}{
		{"all up", up, up, 200, "connected", "connected"},
		{"no redis configured", up, nil, 200, "connected", "disabled"},
		{"database down", down, up, 503, "disconnected", "connected"},
		{"redis down", up, down, 503, "connected", "disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/v1/health", NewHealthHandler(tt.db, tt.redis).GetHealth)

			w := serve(r, "GET", "/v1/health", "")

			require.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), `"database":{"status":"`+tt.database+`"}`)
			assert.Contains(t, w.Body.String(), `"redis":{"status":"`+tt.cache+`"}`)
		})
	}
}
