package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/oauth2"

	"github.com/hrygo/bookwise/plugin/ai/agent"
	"github.com/hrygo/bookwise/server/auth"
	"github.com/hrygo/bookwise/internal/observability"
)

// chatRequest is the inbound chat message.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// chatResponse is the user-facing reply.
type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// tokenRequest carries a serialized credential saved directly, bypassing
// the browser flow.
type tokenRequest struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Bookwise API is running!"})
}

// handleStats reports in-memory chat counters.
func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}

// handleAuthorize redirects the browser to the provider consent page. The
// OAuth state parameter carries the session identity through the redirect.
func (s *Server) handleAuthorize(c echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		sessionID = shortuuid.New()
	}
	return c.Redirect(http.StatusFound, s.flow.AuthCodeURL(sessionID))
}

// handleCallback exchanges the authorization code and stores the credential
// for the session named in the state parameter.
func (s *Server) handleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing authorization code"})
	}
	sessionID := c.QueryParam("state")
	if sessionID == "" {
		sessionID = auth.DefaultSessionID
	}

	token, err := s.flow.Exchange(c.Request().Context(), code)
	if err != nil {
		s.logger.Error("authorization code exchange failed", "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "authorization failed"})
	}

	if err := s.tokens.Set(c.Request().Context(), sessionID, token); err != nil {
		s.logger.Error("credential storage failed", "session_id", sessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store credential"})
	}

	s.logger.Info("calendar connected", "session_id", sessionID)
	return c.HTML(http.StatusOK,
		"<h2>Authentication successful! You can now book appointments.</h2>"+
			"<p>Session: "+sessionID+"</p>")
}

// handleSaveToken accepts an already serialized token for a session.
func (s *Server) handleSaveToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
	}
	if strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing token"})
	}

	token, err := decodeToken(req.Token)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "token is not a valid serialized credential"})
	}

	if err := s.tokens.Set(c.Request().Context(), req.SessionID, token); err != nil {
		s.logger.Error("credential storage failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store credential"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// handleChat runs one message through the pipeline. The reply is always
// HTTP 200 with a user-facing string; pipeline failures never surface as
// transport errors.
func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"response": "Invalid JSON body."})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"response": "Please send a message."})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = auth.DefaultSessionID
	}

	ctx := c.Request().Context()
	if err := s.chatSemaphore.Acquire(ctx, 1); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"response": "The assistant is busy. Please try again."})
	}
	defer s.chatSemaphore.Release(1)

	reqCtx := observability.NewRequestContext(s.logger, sessionID)
	ctx = observability.WithRequestContext(ctx, reqCtx)

	// now is captured once; all relative-time inference in this request
	// uses this single snapshot.
	now := time.Now().In(s.location)
	credential := s.tokens.Get(sessionID)

	reply := s.agent.Process(ctx, req.Message, credential, now)

	// A chat counts as failed when the pipeline could not produce an intent:
	// the extraction call itself failed or the model output was unparsable.
	failed := reply == agent.MsgExtractionFailed || strings.HasPrefix(reply, agent.MsgRephrase)
	s.metrics.RecordChat(time.Since(reqCtx.StartTime), failed)

	reqCtx.Info("chat handled",
		slog.Int(observability.LogFieldMessageLen, len(req.Message)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, chatResponse{Response: reply, SessionID: sessionID})
}

// decodeToken parses a serialized oauth2 token.
func decodeToken(blob string) (*oauth2.Token, error) {
	var token oauth2.Token
	if err := json.Unmarshal([]byte(blob), &token); err != nil {
		return nil, err
	}
	return &token, nil
}
