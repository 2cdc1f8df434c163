package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/cardczar/cah-table-backend/internal/room"
)

// TableState reports the current table snapshot. Handy for monitoring and
// poking at the server without a websocket client.
func TableState(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan room.View, 1)
		rm.Inbox() <- room.GetView{Reply: reply}
		view := <-reply

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Version    int    `json:"version"`
			NumClients int    `json:"numClients"`
			Phase      string `json:"phase"`
			Players    int    `json:"players"`
		}{
			Version:    view.Version,
			NumClients: view.NumClients,
			Phase:      view.Snapshot.Phase.String(),
			Players:    len(view.Snapshot.Players),
		})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
