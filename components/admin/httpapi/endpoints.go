package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
	"github.com/goliatone/go-chatadmin/components/admin/commands"
	"github.com/goliatone/go-chatadmin/components/admin/queries"
)

// ErrBadRequest marks malformed request bodies and parameters.
var ErrBadRequest = errors.New("httpapi: bad request")

// Request is the transport neutral view of an incoming call.
type Request struct {
	Params map[string]string
	Query  url.Values
	Body   []byte
	Actor  admin.ActivityContext
}

// Param returns a path parameter.
func (r Request) Param(name string) string {
	return r.Params[name]
}

// Response is what an endpoint hands back to the transport. Raw, when set,
// is written verbatim with ContentType; otherwise Body is encoded as JSON.
type Response struct {
	Status      int
	Body        any
	ContentType string
	Raw         []byte
}

// Endpoint binds a method and a path with ":name" parameters to a handler.
type Endpoint struct {
	Method string
	Path   string
	Handle func(ctx context.Context, req Request) Response
}

// Endpoints lists the routes backed by the configured commands and queries.
// Static paths are listed before parameterized siblings.
func (h *Handlers) Endpoints() []Endpoint {
	var out []Endpoint
	add := func(ep Endpoint, ok bool) {
		if ok {
			out = append(out, ep)
		}
	}

	add(listEndpoint("/widgets", h.ListWidgets))
	add(createEndpoint("/widgets", h.CreateWidget))
	add(queryEndpoint(http.MethodGet, "/widgets/stats", h.WidgetStats))
	add(h.chartEndpoint())
	add(getEndpoint("/widgets/:id", h.GetWidget))
	add(updateEndpoint("/widgets/:id", h.UpdateWidget))
	add(deleteEndpoint("/widgets/:id", admin.EntityWidget, h.Delete))
	add(h.widgetStatusEndpoint())
	add(h.snippetEndpoint())

	add(listEndpoint("/models", h.ListModels))
	add(createEndpoint("/models", h.CreateModel))
	add(getEndpoint("/models/:id", h.GetModel))
	add(updateEndpoint("/models/:id", h.UpdateModel))
	add(deleteEndpoint("/models/:id", admin.EntityModel, h.Delete))
	add(h.promptsEndpoint())

	add(listEndpoint("/users", h.ListUsers))
	add(createEndpoint("/users", h.CreateUser))
	add(getEndpoint("/users/:id", h.GetUser))
	add(updateEndpoint("/users/:id", h.UpdateUser))
	add(deleteEndpoint("/users/:id", admin.EntityUser, h.Delete))

	add(listEndpoint("/roles", h.ListRoles))
	add(createEndpoint("/roles", h.CreateRole))
	add(getEndpoint("/roles/:id", h.GetRole))
	add(updateEndpoint("/roles/:id", h.UpdateRole))
	add(deleteEndpoint("/roles/:id", admin.EntityRole, h.Delete))

	add(listEndpoint("/permissions", h.ListPermissions))
	add(createEndpoint("/permissions", h.CreatePermission))
	add(getEndpoint("/permissions/:id", h.GetPermission))
	add(updateEndpoint("/permissions/:id", h.UpdatePermission))
	add(deleteEndpoint("/permissions/:id", admin.EntityPermission, h.Delete))

	add(queryEndpoint(http.MethodGet, "/seed", h.Export))
	add(h.seedEndpoint())
	return out
}

func listEndpoint[T any](path string, q gocommand.Querier[admin.Query, []T]) (Endpoint, bool) {
	return Endpoint{Method: http.MethodGet, Path: path, Handle: func(ctx context.Context, req Request) Response {
		records, err := q.Query(ctx, ParseQuery(req.Query))
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: map[string]any{"items": records, "total": len(records)}}
	}}, q != nil
}

func getEndpoint[T any](path string, q gocommand.Querier[queries.GetInput, T]) (Endpoint, bool) {
	return Endpoint{Method: http.MethodGet, Path: path, Handle: func(ctx context.Context, req Request) Response {
		rec, err := q.Query(ctx, queries.GetInput{ID: req.Param("id")})
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: rec}
	}}, q != nil
}

func queryEndpoint[T any](method, path string, q gocommand.Querier[queries.StatsInput, T]) (Endpoint, bool) {
	return Endpoint{Method: method, Path: path, Handle: func(ctx context.Context, _ Request) Response {
		out, err := q.Query(ctx, queries.StatsInput{})
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: out}
	}}, q != nil
}

func createEndpoint[In any, Out admin.Record](path string, c gocommand.Commander[commands.CreateInput[In, Out]]) (Endpoint, bool) {
	return Endpoint{Method: http.MethodPost, Path: path, Handle: func(ctx context.Context, req Request) Response {
		var msg commands.CreateInput[In, Out]
		if err := decode(req.Body, &msg.Input); err != nil {
			return errorResponse(err)
		}
		var out Out
		msg.Result = &out
		if err := c.Execute(ctx, msg); err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusCreated, Body: out}
	}}, c != nil
}

func updateEndpoint[P any, Out admin.Record](path string, c gocommand.Commander[commands.UpdateInput[P, Out]]) (Endpoint, bool) {
	return Endpoint{Method: http.MethodPost, Path: path, Handle: func(ctx context.Context, req Request) Response {
		msg := commands.UpdateInput[P, Out]{ID: req.Param("id")}
		if err := decode(req.Body, &msg.Patch); err != nil {
			return errorResponse(err)
		}
		var out Out
		msg.Result = &out
		if err := c.Execute(ctx, msg); err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: out}
	}}, c != nil
}

func deleteEndpoint(path string, entity admin.Entity, c gocommand.Commander[commands.DeleteInput]) (Endpoint, bool) {
	return Endpoint{Method: http.MethodDelete, Path: path, Handle: func(ctx context.Context, req Request) Response {
		if err := c.Execute(ctx, commands.DeleteInput{Entity: entity, ID: req.Param("id")}); err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusNoContent}
	}}, c != nil
}

func (h *Handlers) chartEndpoint() (Endpoint, bool) {
	return Endpoint{Method: http.MethodGet, Path: "/widgets/stats/chart", Handle: func(ctx context.Context, _ Request) Response {
		html, err := h.WidgetChart.Query(ctx, queries.StatsInput{})
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, ContentType: "text/html; charset=utf-8", Raw: []byte(html)}
	}}, h.WidgetChart != nil
}

func (h *Handlers) widgetStatusEndpoint() (Endpoint, bool) {
	return Endpoint{Method: http.MethodPost, Path: "/widgets/:id/status", Handle: func(ctx context.Context, req Request) Response {
		var payload struct {
			Status admin.WidgetStatus `json:"status"`
		}
		if err := decode(req.Body, &payload); err != nil {
			return errorResponse(err)
		}
		var out admin.Widget
		msg := commands.SetWidgetStatusInput{ID: req.Param("id"), Status: payload.Status, Result: &out}
		if err := h.SetWidgetStatus.Execute(ctx, msg); err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: out}
	}}, h.SetWidgetStatus != nil
}

func (h *Handlers) snippetEndpoint() (Endpoint, bool) {
	return Endpoint{Method: http.MethodGet, Path: "/widgets/:id/snippet", Handle: func(ctx context.Context, req Request) Response {
		format, err := admin.ParseSnippetFormat(req.Query.Get("format"))
		if err != nil {
			return errorResponse(err)
		}
		snippet, err := h.Snippet.Query(ctx, queries.SnippetInput{WidgetID: req.Param("id"), Format: format})
		if err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: snippet}
	}}, h.Snippet != nil
}

func (h *Handlers) promptsEndpoint() (Endpoint, bool) {
	return Endpoint{Method: http.MethodPost, Path: "/models/:id/prompts", Handle: func(ctx context.Context, req Request) Response {
		var payload admin.PromptsInput
		if err := decode(req.Body, &payload); err != nil {
			return errorResponse(err)
		}
		var out admin.AIModel
		msg := commands.SavePromptsInput{ModelID: req.Param("id"), Prompts: payload.Prompts, Result: &out}
		if err := h.SavePrompts.Execute(ctx, msg); err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: out}
	}}, h.SavePrompts != nil
}

func (h *Handlers) seedEndpoint() (Endpoint, bool) {
	return Endpoint{Method: http.MethodPost, Path: "/seed", Handle: func(ctx context.Context, req Request) Response {
		var msg commands.SeedInput
		if len(strings.TrimSpace(string(req.Body))) > 0 {
			var doc admin.SeedDocument
			if err := decode(req.Body, &doc); err != nil {
				return errorResponse(err)
			}
			msg.Document = &doc
		}
		if err := h.Seed.Execute(ctx, msg); err != nil {
			return errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: map[string]string{"status": "seeded"}}
	}}, h.Seed != nil
}

// ParseQuery reads the search text from "q" and filter tags from repeated or
// comma separated "filter=type:value" parameters. Malformed tags are skipped.
func ParseQuery(values url.Values) admin.Query {
	query := admin.Query{Search: strings.TrimSpace(values.Get("q"))}
	for _, raw := range values["filter"] {
		for _, part := range strings.Split(raw, ",") {
			if tag, ok := admin.ParseFilterTag(part); ok {
				query.Filters = append(query.Filters, tag)
			}
		}
	}
	return query
}

func decode(body []byte, dst any) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrBadRequest)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// StatusFor maps admin errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, admin.ErrValidation),
		errors.Is(err, admin.ErrInvalidSeed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, admin.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, admin.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, admin.ErrUnknownSnippetFormat),
		errors.Is(err, admin.ErrInvalidTransition),
		errors.Is(err, admin.ErrIndexOutOfRange),
		errors.Is(err, admin.ErrNotList),
		errors.Is(err, admin.ErrInvalidPath):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorResponse(err error) Response {
	body := map[string]any{"error": err.Error()}
	var verr *admin.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return Response{Status: StatusFor(err), Body: body}
}
