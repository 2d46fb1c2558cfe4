package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"buzzportal/internal/app/model"
	"buzzportal/internal/app/user"
)

// LoginResult is the body of a successful login.
type LoginResult struct {
	User  user.Identity `json:"user"`
	Token string        `json:"token"`
}

// Credentials are the login form values.
type Credentials struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

// SignupInput is the signup form as sent to the service.
type SignupInput struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
}

// SignupResult is the optional body of a successful signup.
type SignupResult struct {
	Message string `json:"message"`
}

// decode unmarshals raw into a T. A null body yields the zero value.
func decode[T any](raw json.RawMessage, what string) (T, error) {
	var out T
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &Error{Kind: Unreachable, Err: fmt.Errorf("decode %s: %w", what, err)}
	}
	return out, nil
}

func list[T any](ctx context.Context, c *Client, credential, path string, query url.Values) ([]T, error) {
	raw, err := c.Call(ctx, credential, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	items, err := decode[[]T](raw, path)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Client) send(ctx context.Context, credential, method, path string, body any) (json.RawMessage, error) {
	return c.Call(ctx, credential, Request{Method: method, Path: path, Body: body})
}

// Login exchanges credentials for an identity and a bearer credential.
func (c *Client) Login(ctx context.Context, in Credentials) (LoginResult, error) {
	raw, err := c.Call(ctx, "", Request{Method: http.MethodPost, Path: "/auth/login", Body: in, Public: true})
	if err != nil {
		return LoginResult{}, err
	}
	return decode[LoginResult](raw, "login response")
}

// Signup creates an account. It does not sign in.
func (c *Client) Signup(ctx context.Context, in SignupInput) (SignupResult, error) {
	raw, err := c.Call(ctx, "", Request{Method: http.MethodPost, Path: "/auth/signup", Body: in, Public: true})
	if err != nil {
		return SignupResult{}, err
	}
	return decode[SignupResult](raw, "signup response")
}

// ListEvents returns events; query may carry "category" and "sort".
func (c *Client) ListEvents(ctx context.Context, credential string, query url.Values) ([]model.Event, error) {
	return list[model.Event](ctx, c, credential, "/events", query)
}

func (c *Client) CreateEvent(ctx context.Context, credential string, in model.EventInput) error {
	_, err := c.send(ctx, credential, http.MethodPost, "/events", in)
	return err
}

func (c *Client) UpdateEvent(ctx context.Context, credential, id string, in model.EventInput) error {
	_, err := c.send(ctx, credential, http.MethodPut, "/events/"+url.PathEscape(id), in)
	return err
}

func (c *Client) DeleteEvent(ctx context.Context, credential, id string) error {
	_, err := c.send(ctx, credential, http.MethodDelete, "/events/"+url.PathEscape(id), nil)
	return err
}

// ListRegistrations returns every registration (staff view).
func (c *Client) ListRegistrations(ctx context.Context, credential string) ([]model.Registration, error) {
	return list[model.Registration](ctx, c, credential, "/registrations", nil)
}

// ListMyRegistrations returns the signed-in user's registrations.
func (c *Client) ListMyRegistrations(ctx context.Context, credential string) ([]model.Registration, error) {
	return list[model.Registration](ctx, c, credential, "/registrations/my", nil)
}

// Register signs the user up for an event and returns the created registration.
func (c *Client) Register(ctx context.Context, credential, eventID string) (model.Registration, error) {
	raw, err := c.send(ctx, credential, http.MethodPost, "/registrations", map[string]string{"eventId": eventID})
	if err != nil {
		return model.Registration{}, err
	}
	return decode[model.Registration](raw, "registration")
}

func (c *Client) ListAnnouncements(ctx context.Context, credential string) ([]model.Announcement, error) {
	return list[model.Announcement](ctx, c, credential, "/announcements", nil)
}

func (c *Client) PostAnnouncement(ctx context.Context, credential, title, body string) error {
	_, err := c.send(ctx, credential, http.MethodPost, "/announcements", map[string]string{"title": title, "body": body})
	return err
}

func (c *Client) DeleteAnnouncement(ctx context.Context, credential, id string) error {
	_, err := c.send(ctx, credential, http.MethodDelete, "/announcements/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) ListDiscussions(ctx context.Context, credential string) ([]model.DiscussionMessage, error) {
	return list[model.DiscussionMessage](ctx, c, credential, "/discussions", nil)
}

func (c *Client) PostDiscussion(ctx context.Context, credential, message string) error {
	_, err := c.send(ctx, credential, http.MethodPost, "/discussions", map[string]string{"message": message})
	return err
}

func (c *Client) DeleteDiscussion(ctx context.Context, credential, id string) error {
	_, err := c.send(ctx, credential, http.MethodDelete, "/discussions/"+url.PathEscape(id), nil)
	return err
}

// ListUsers returns accounts with the given role.
func (c *Client) ListUsers(ctx context.Context, credential string, role user.Role) ([]user.Identity, error) {
	return list[user.Identity](ctx, c, credential, "/users", url.Values{"role": {string(role)}})
}
