package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-chatadmin/components/admin"
)

// Actor headers read by the net/http transport.
const (
	HeaderActorID  = "X-Actor-ID"
	HeaderUserID   = "X-User-ID"
	HeaderTenantID = "X-Tenant-ID"
)

// maxBodyBytes caps request bodies; seed documents are the largest payload.
const maxBodyBytes = 4 << 20

// Mount registers every endpoint on mux under base, plus the change event
// streams when broadcast is set.
func (h *Handlers) Mount(mux *http.ServeMux, base string, broadcast *admin.BroadcastHook) {
	base = strings.TrimRight(base, "/")
	for _, ep := range h.Endpoints() {
		mux.HandleFunc(ep.Method+" "+base+muxPattern(ep.Path), h.ServeEndpoint(ep))
	}
	if broadcast != nil {
		mux.HandleFunc(http.MethodGet+" "+base+"/events", broadcast.ServeSSE)
		mux.HandleFunc(http.MethodGet+" "+base+"/ws", broadcast.ServeWebSocket)
	}
}

// ServeEndpoint adapts an endpoint to net/http. Path parameters come from
// the ServeMux pattern.
func (h *Handlers) ServeEndpoint(ep Endpoint) http.HandlerFunc {
	names := paramNames(ep.Path)
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req := Request{
			Params: make(map[string]string, len(names)),
			Query:  r.URL.Query(),
			Body:   body,
			Actor: admin.ActivityContext{
				ActorID:  r.Header.Get(HeaderActorID),
				UserID:   r.Header.Get(HeaderUserID),
				TenantID: r.Header.Get(HeaderTenantID),
			},
		}
		for _, name := range names {
			req.Params[name] = r.PathValue(name)
		}
		ctx := admin.ContextWithActivity(r.Context(), req.Actor)
		WriteResponse(w, ep.Handle(ctx, req))
	}
}

// WriteResponse encodes resp on w.
func WriteResponse(w http.ResponseWriter, resp Response) {
	if resp.Raw != nil {
		w.Header().Set("Content-Type", resp.ContentType)
		w.WriteHeader(resp.Status)
		_, _ = w.Write(resp.Raw)
		return
	}
	if resp.Body == nil {
		w.WriteHeader(resp.Status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp.Body)
}

func muxPattern(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
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
