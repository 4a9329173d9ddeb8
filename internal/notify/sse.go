package notify

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SSEHandler streams an account's realtime events over server-sent
// events. It must sit behind the session middleware so account_id is set.
func SSEHandler(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		rawID, ok := c.Get("account_id").(string)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
		}

		accountID, err := uuid.Parse(rawID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
		}

		w := c.Response()
		w.Header().Set(echo.HeaderContentType, "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		w.Flush()

		ch := hub.Subscribe(accountID)
		defer hub.Unsubscribe(accountID, ch)

		ctx := c.Request().Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case evt, open := <-ch:
				if !open {
					return nil
				}
				data, err := json.Marshal(evt)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, data)
				w.Flush()
			}
		}
	}
}
