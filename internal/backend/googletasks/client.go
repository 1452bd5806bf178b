// Package googletasks reads task lists and open tasks from the Google Tasks API
// so they can be imported into the task backend.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskdash/internal/apperr"
	"taskdash/internal/config"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout bounds each API call.
	APITimeout = 10 * time.Second

	// Scope is the only permission import needs.
	Scope = tasks.TasksReadonlyScope
)

// ErrNotLinked is returned by New when no Google account has been linked.
var ErrNotLinked = errors.New("google account not linked (run: taskdash link)")

// List is a Google task list.
type List struct {
	ID        string
	Title     string
	IsDefault bool
}

// OpenTask is a task that has not been completed.
type OpenTask struct {
	ID    string
	Title string
	Notes string
	Due   time.Time // zero when the task has no due date
}

// Client reads from Google Tasks.
type Client struct {
	svc *tasks.Service
}

// OAuthConfig loads oauth_client.json for the import scope.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.GoogleClientPath())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", config.GoogleClientFile, err)
	}
	oc, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.GoogleClientFile, err)
	}
	return oc, nil
}

// LoadToken reads a saved OAuth token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.GoogleTokenFile, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path with mode 0600.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// New creates a client from the linked account's saved token.
// The token is refreshed as needed.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.HasGoogleClient() || !cfg.HasGoogleToken() {
		return nil, ErrNotLinked
	}
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(cfg.GoogleTokenPath())
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(ctx, oauth2.NewClient(ctx, oc.TokenSource(ctx, tok)))
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, hc *http.Client, opts ...option.ClientOption) (*Client, error) {
	svc, err := tasks.NewService(ctx, append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// DefaultList returns the user's default task list.
func (c *Client) DefaultList(ctx context.Context) (List, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	l, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return List{}, wrapError("get default list", err)
	}
	return List{ID: DefaultListID, Title: l.Title, IsDefault: true}, nil
}

// Lists returns all task lists in API order. The default list carries DefaultListID.
func (c *Client) Lists(ctx context.Context) ([]List, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	def, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("list task lists", err)
	}

	var out []List
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, l := range resp.Items {
			isDefault := l.Id == def.Id
			id := l.Id
			if isDefault {
				id = DefaultListID
			}
			out = append(out, List{ID: id, Title: l.Title, IsDefault: isDefault})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("list task lists", err)
	}
	return out, nil
}

// ResolveList finds a list by name, ignoring case and surrounding space.
func (c *Client) ResolveList(ctx context.Context, name string) (List, error) {
	name = strings.TrimSpace(name)
	lists, err := c.Lists(ctx)
	if err != nil {
		return List{}, err
	}

	var matches []List
	for _, l := range lists {
		if strings.EqualFold(strings.TrimSpace(l.Title), name) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return List{}, fmt.Errorf("list not found: %s", name)
	case 1:
		return matches[0], nil
	default:
		return List{}, fmt.Errorf("ambiguous list name: %s", name)
	}
}

// ListOpenTasks returns every open task of a list, following page tokens.
func (c *Client) ListOpenTasks(ctx context.Context, listID string) ([]OpenTask, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var out []OpenTask
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				ot := OpenTask{ID: t.Id, Title: t.Title, Notes: t.Notes}
				if t.Due != "" {
					due, err := time.Parse(time.RFC3339, t.Due)
					if err != nil {
						return apperr.Malformed("list open tasks", err)
					}
					ot.Due = due
				}
				out = append(out, ot)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list open tasks", err)
	}
	return out, nil
}

// wrapError maps API failures onto apperr kinds.
func wrapError(op string, err error) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			e := apperr.Auth(op, "google token expired or revoked (run: taskdash link)")
			e.Status = gerr.Code
			return e
		default:
			return apperr.Backend(op, gerr.Code, gerr.Message)
		}
	}
	return apperr.Network(op, err)
}
