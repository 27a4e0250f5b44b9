package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const changeStreamBuffer = 32

// StreamChanges 以 SSE 推送变更通知，客户端断开后自动退订
func (a *API) StreamChanges(c *gin.Context) {
	changes, cancel := a.feed.Subscribe(changeStreamBuffer)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case change, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent(string(change.Kind), gin.H{
				"kind": string(change.Kind),
				"id":   change.ID,
				"at":   change.At.UTC().Format(time.RFC3339),
			})
			return true
		}
	})
}
