package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/requeue/internal/guard"
	"github.com/desertthunder/requeue/internal/models"
	"github.com/desertthunder/requeue/internal/shared"
	"github.com/desertthunder/requeue/internal/tasks"
)

// CreateHandler runs the playlist creation orchestration for POSTed requests.
type CreateHandler struct {
	engine *tasks.CreationEngine
	logger *log.Logger
}

// NewCreateHandler creates a CreateHandler around the given engine.
func NewCreateHandler(engine *tasks.CreationEngine, logger *log.Logger) *CreateHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CreateHandler{engine: engine, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CreateHandler) Routes() []string {
	return []string{"/api/create-playlist"}
}

// ServeHTTP decodes the creation request, runs the engine, and writes the
// single outcome with its mapped status code.
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CreationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("malformed creation request", "error", err)
		writeOutcome(w, &models.Outcome{
			Message: "Missing required data: access token, number of songs, or playlist name",
			Kind:    models.OutcomeError,
			Reason:  models.ReasonValidation,
		})
		return
	}

	outcome := h.engine.Create(r.Context(), req, nil)
	writeOutcome(w, outcome)
}

func writeOutcome(w http.ResponseWriter, outcome *models.Outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(outcome.StatusCode())
	json.NewEncoder(w).Encode(outcome)
}

// indexPage renders the creation form. The inline script mirrors the
// server-side guard at the browsing-session level: it marks the credential
// in localStorage before dispatching, so a reload of the redirect URL cannot
// trigger a second round-trip.
var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>requeue</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; min-height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); max-width: 28rem; }
        h1 { margin: 0 0 0.5rem 0; }
        h1 span { color: #1DB954; }
        p.sub { color: #666; margin: 0 0 1.5rem 0; }
        input { display: block; width: 100%; box-sizing: border-box; margin: 0.5rem 0;
                padding: 0.6rem; border: 1px solid #ddd; border-radius: 6px; }
        button { background: #1DB954; color: white; border: none; border-radius: 999px;
                 padding: 0.7rem 2rem; margin-top: 1rem; cursor: pointer; font-size: 1rem; }
        #message { margin-top: 1rem; padding: 0.8rem; border-radius: 6px; display: none; }
        #message.success { background: #d1f7dd; color: #14532d; display: block; }
        #message.error { background: #fde2e2; color: #7f1d1d; display: block; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Were the last few songs you queued <span>perfect</span> for a playlist?</h1>
        <p class="sub">Enter how many songs back to look and what to call your playlist.</p>
        <input id="numberOfSongs" type="number" placeholder="Number of songs" value="30" />
        <input id="playlistName" type="text" placeholder="Playlist name" />
        <button id="create">Create</button>
        <div id="message">{{.Message}}</div>
    </div>
    <script>
    (function () {
        var params = new URLSearchParams(window.location.search);
        var token = params.get("access_token");
        var message = document.getElementById("message");

        function show(text, kind) {
            message.textContent = text;
            message.className = kind;
        }

        function createPlaylist(token) {
            var name = localStorage.getItem("playlistName") || document.getElementById("playlistName").value;
            var count = Number(localStorage.getItem("numberOfSongs")) || Number(document.getElementById("numberOfSongs").value);

            fetch("/api/create-playlist", {
                method: "POST",
                headers: { "Content-Type": "application/json" },
                body: JSON.stringify({ accessToken: token, numberOfSongs: count, playlistName: name })
            }).then(function (resp) {
                return resp.json();
            }).then(function (body) {
                show(body.message, body.kind);
            }).catch(function () {
                show("Failed to create playlist. Please try again.", "error");
            });
        }

        if (token) {
            window.history.replaceState({}, document.title, "/");
            // Mark before dispatching so a rapid re-render cannot double-send.
            if (localStorage.getItem("playlistCreationLock") !== token) {
                localStorage.setItem("playlistCreationLock", token);
                createPlaylist(token);
            } else {
                show("Playlist has already been created", "error");
            }
        }

        document.getElementById("create").addEventListener("click", function () {
            localStorage.setItem("numberOfSongs", document.getElementById("numberOfSongs").value);
            localStorage.setItem("playlistName", document.getElementById("playlistName").value);
            window.location.href = "/auth/spotify";
        });
    })();
    </script>
</body>
</html>
`))

// IndexHandler serves the creation form and enforces the server-visible half
// of the dispatch lock: a credential that already initiated an orchestration
// from this serving session renders the already-created message instead of
// re-dispatching.
type IndexHandler struct {
	tracker guard.DispatchTracker
	logger  *log.Logger
}

// NewIndexHandler creates an IndexHandler with the given dispatch tracker.
func NewIndexHandler(tracker guard.DispatchTracker, logger *log.Logger) *IndexHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &IndexHandler{tracker: tracker, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *IndexHandler) Routes() []string {
	return []string{"/"}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := struct{ Message string }{}

	if token := r.URL.Query().Get("access_token"); token != "" {
		if h.tracker.HasDispatched(token) {
			h.logger.Warn("credential already dispatched")
			data.Message = "Playlist has already been created"
		} else {
			// Mark before the page's script sends the request.
			h.tracker.MarkDispatched(token)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, data); err != nil {
		h.logger.Error("failed to render index page", "error", err)
	}
}
