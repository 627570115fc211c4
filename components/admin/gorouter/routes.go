package gorouter

import (
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-chatadmin/components/admin"
	"github.com/goliatone/go-chatadmin/components/admin/httpapi"
)

// ActorResolver converts a router.Context into the actor recorded on activity events.
type ActorResolver func(router.Context) admin.ActivityContext

// Config wires go-router with the admin API and change broadcasts.
type Config[T any] struct {
	Router        router.Router[T]
	API           *httpapi.Handlers
	Broadcast     *admin.BroadcastHook
	ActorResolver ActorResolver
	BasePath      string
	WebSocketPath string
}

// Register mounts the admin REST endpoints and the change event WebSocket on
// a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api handlers are required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.ActorResolver
	if resolver == nil {
		resolver = defaultActorResolver
	}

	group := cfg.Router.Group(base)
	for _, ep := range cfg.API.Endpoints() {
		handler := router.WrapHandler(endpointHandler(ep, resolver))
		switch ep.Method {
		case http.MethodGet:
			group.Get(ep.Path, handler)
		case http.MethodPost:
			group.Post(ep.Path, handler)
		case http.MethodDelete:
			group.Delete(ep.Path, handler)
		}
	}

	if cfg.Broadcast != nil {
		path := cfg.WebSocketPath
		if path == "" {
			path = "/ws"
		}
		registerWebSocket(group, cfg.Broadcast, path)
	}
	return nil
}

func endpointHandler(ep httpapi.Endpoint, resolver ActorResolver) func(router.Context) error {
	names := paramNames(ep.Path)
	return func(ctx router.Context) error {
		req := httpapi.Request{
			Params: make(map[string]string, len(names)),
			Query:  map[string][]string{},
			Body:   ctx.Body(),
			Actor:  resolver(ctx),
		}
		for _, name := range names {
			req.Params[name] = ctx.Param(name)
		}
		// go-router exposes single query values; filters are comma separated.
		for _, key := range []string{"q", "filter", "format"} {
			if v := ctx.Query(key); v != "" {
				req.Query[key] = []string{v}
			}
		}
		resp := ep.Handle(admin.ContextWithActivity(ctx.Context(), req.Actor), req)
		return writeResponse(ctx, resp)
	}
}

func writeResponse(ctx router.Context, resp httpapi.Response) error {
	if resp.Raw != nil {
		ctx.SetHeader("Content-Type", resp.ContentType)
		return ctx.Send(resp.Raw)
	}
	if resp.Body == nil {
		return ctx.JSON(resp.Status, map[string]string{"status": "ok"})
	}
	return ctx.JSON(resp.Status, resp.Body)
}

func registerWebSocket[T any](r router.Router[T], hook *admin.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultActorResolver(ctx router.Context) admin.ActivityContext {
	var actor admin.ActivityContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		actor.ActorID = v
		actor.UserID = v
	}
	if v, ok := ctx.Locals("tenant_id").(string); ok {
		actor.TenantID = v
	}
	if actor.ActorID == "" {
		actor.ActorID = strings.TrimSpace(ctx.Header(httpapi.HeaderActorID))
	}
	if actor.UserID == "" {
		actor.UserID = strings.TrimSpace(ctx.Header(httpapi.HeaderUserID))
	}
	if actor.TenantID == "" {
		actor.TenantID = strings.TrimSpace(ctx.Header(httpapi.HeaderTenantID))
	}
	return actor
}

func paramNames(path string) []string {
	var names []string
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, ":") {
			names = append(names, part[1:])
		}
	}
	return names
}
