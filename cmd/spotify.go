package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/requeue/internal/formatter"
	"github.com/desertthunder/requeue/internal/models"
	"github.com/desertthunder/requeue/internal/server"
	"github.com/desertthunder/requeue/internal/shared"
	"github.com/desertthunder/requeue/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// SpotifyAuth performs the OAuth2 authorization flow from the terminal.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// prints the resulting access token for use with the other spotify commands.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(r.config)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("Access token:\n%s\n\n", token.AccessToken)
	r.writePlain("Export it for the other commands:\n")
	r.writePlain("  export REQUEUE_ACCESS_TOKEN=%q\n", token.AccessToken)

	return nil
}

// SpotifyRecent lists the user's recently played tracks.
func (r *Runner) SpotifyRecent(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	credential := cmd.String("token")
	if credential == "" {
		return fmt.Errorf("%w: --token (or REQUEUE_ACCESS_TOKEN) is required", shared.ErrMissingArgument)
	}

	limit := cmd.Int("limit")
	r.logger.Info("fetching recently played tracks", "limit", limit)

	tracks, err := r.spotify.RecentTracks(ctx, credential, limit)
	if err != nil {
		if errors.Is(err, shared.ErrNoRecentTracks) {
			return r.writePlain("No recently played tracks found.\n")
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	return r.writePlain("%s\n", formatter.RecentTracksList(tracks))
}

// SpotifyCreate runs one playlist creation end to end from the terminal.
func (r *Runner) SpotifyCreate(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	credential := cmd.String("token")
	if credential == "" {
		return fmt.Errorf("%w: --token (or REQUEUE_ACCESS_TOKEN) is required", shared.ErrMissingArgument)
	}

	req := models.CreationRequest{
		Credential:   credential,
		TrackCount:   cmd.Int("count"),
		PlaylistName: cmd.String("name"),
	}

	engine := tasks.NewCreationEngine(r.spotify, r.guard, r.logger)

	progress := make(chan tasks.ProgressUpdate, 8)
	outcome := engine.Create(ctx, req, progress)
	close(progress)
	for update := range progress {
		r.writePlain("→ %s\n", update.Message)
	}

	r.writePlain("%s\n", formatter.OutcomeBanner(outcome))

	if outcome.Kind == models.OutcomeError {
		return fmt.Errorf("playlist creation failed: %s", outcome.Message)
	}
	return nil
}

// doOAuth runs the one-shot callback server flow and returns the exchanged token.
//
// The CLI callback listens on /callback at the configured server address, so
// the Spotify app must register that redirect alongside the web one.
func (r *Runner) doOAuth(config *shared.Config) (*oauth2.Token, error) {
	state := shared.GenerateID()

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	oauthConfig := *r.spotify.OAuthConfig()
	oauthConfig.RedirectURL = fmt.Sprintf("http://%s/callback", serverAddr)

	authURL := oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "true"))
	oauthHandler := server.NewOAuthHandler(&oauthConfig, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
