package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const ActiveClientKey contextKey = "activeClient"

// ActiveClient is the client the back office is currently working on.
type ActiveClient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GetActiveClient extracts the active client from the request context.
func GetActiveClient(r *http.Request) *ActiveClient {
	if val, ok := r.Context().Value(ActiveClientKey).(*ActiveClient); ok {
		return val
	}
	return nil
}

// ActiveClientMiddleware reads the "active_client" cookie, loads the client
// record and stores it in the request context. A stale cookie pointing at a
// deleted client is cleared.
func ActiveClientMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var active *ActiveClient

		cookie, err := e.Request.Cookie("active_client")
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("clients", cookie.Value)
			if err == nil {
				active = &ActiveClient{
					ID:   rec.Id,
					Name: rec.GetString("name"),
				}
			} else {
				log.Printf("middleware: active client %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   "active_client",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		ctx := context.WithValue(e.Request.Context(), ActiveClientKey, active)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

// HandleClientActivate sets the active client cookie.
func HandleClientActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clientID := e.Request.PathValue("id")

		rec, err := app.FindRecordById("clients", clientID)
		if err != nil {
			return e.String(http.StatusNotFound, "Client not found")
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_client",
			Value:    clientID,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		return e.JSON(http.StatusOK, ActiveClient{ID: rec.Id, Name: rec.GetString("name")})
	}
}

// HandleClientDeactivate clears the active client cookie.
func HandleClientDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		http.SetCookie(e.Response, &http.Cookie{
			Name:   "active_client",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		return e.NoContent(http.StatusNoContent)
	}
}
