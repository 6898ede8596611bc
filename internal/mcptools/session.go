// Package mcptools provides MCP tool handlers for the task board server.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (services, session) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Tools are thin wrappers over the service layer; the in-process Session
// holds the authenticated user for the lifetime of the stdio connection.
package mcptools

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard-api/internal/services"
)

// Session tracks the authenticated user for a single MCP connection.
// The zero value is a logged-out session. Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	userID   uint64
	username string
	loggedIn bool
}

// NewSession creates a logged-out session.
func NewSession() *Session {
	return &Session{}
}

// SetUser records the authenticated user.
func (s *Session) SetUser(userID uint64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.username = username
	s.loggedIn = true
}

// Clear logs the session out.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.username = ""
	s.loggedIn = false
}

// Current returns the authenticated user, if any.
func (s *Session) Current() (uint64, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.username, s.loggedIn
}

// LoginTool handles the login MCP tool.
type LoginTool struct {
	authService *services.AuthService
	session     *Session
}

// NewLoginTool creates a LoginTool.
func NewLoginTool(authService *services.AuthService, session *Session) *LoginTool {
	return &LoginTool{authService: authService, session: session}
}

// Definition returns the MCP tool definition for login.
func (t *LoginTool) Definition() mcp.Tool {
	return mcp.NewTool("login",
		mcp.WithDescription(
			"Log in with a username and password. All other tools require a logged-in session, "+
				"so call this first. The session persists until logout or the server stops.",
		),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("Account username"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("Account password"),
		),
	)
}

// Handle processes the login tool call.
func (t *LoginTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username := req.GetString("username", "")
	password := req.GetString("password", "")

	if username == "" {
		return mcp.NewToolResultError("'username' is required"), nil
	}
	if password == "" {
		return mcp.NewToolResultError("'password' is required"), nil
	}

	user, err := t.authService.Login(services.LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("login failed: %v", err)), nil
	}

	t.session.SetUser(user.ID, user.Username)

	return mcp.NewToolResultText(fmt.Sprintf("Logged in as %q (user ID %d)", user.Username, user.ID)), nil
}

// LogoutTool handles the logout MCP tool.
type LogoutTool struct {
	session *Session
}

// NewLogoutTool creates a LogoutTool.
func NewLogoutTool(session *Session) *LogoutTool {
	return &LogoutTool{session: session}
}

// Definition returns the MCP tool definition for logout.
func (t *LogoutTool) Definition() mcp.Tool {
	return mcp.NewTool("logout",
		mcp.WithDescription("Log out of the current session."),
	)
}

// Handle processes the logout tool call.
func (t *LogoutTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, username, ok := t.session.Current()
	if !ok {
		return mcp.NewToolResultText("No active session"), nil
	}

	t.session.Clear()

	return mcp.NewToolResultText(fmt.Sprintf("Logged out %q", username)), nil
}

// CurrentUserTool handles the current_user MCP tool.
type CurrentUserTool struct {
	session *Session
}

// NewCurrentUserTool creates a CurrentUserTool.
func NewCurrentUserTool(session *Session) *CurrentUserTool {
	return &CurrentUserTool{session: session}
}

// Definition returns the MCP tool definition for current_user.
func (t *CurrentUserTool) Definition() mcp.Tool {
	return mcp.NewTool("current_user",
		mcp.WithDescription("Show which user the session is logged in as, if any."),
	)
}

// Handle processes the current_user tool call.
func (t *CurrentUserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, username, ok := t.session.Current()
	if !ok {
		return mcp.NewToolResultText("Not logged in"), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Logged in as %q (user ID %d)", username, userID)), nil
}
