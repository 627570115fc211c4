package gorouter

import (
	"testing"

	"github.com/goliatone/go-chatadmin/components/admin/httpapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router missing")
	}
	if err := Register(Config[struct{}]{API: &httpapi.Handlers{}}); err == nil {
		t.Fatalf("expected error when router missing with api set")
	}
}

func TestParamNames(t *testing.T) {
	names := paramNames("/widgets/:id/snippet")
	if len(names) != 1 || names[0] != "id" {
		t.Fatalf("unexpected params %v", names)
	}
	if got := paramNames("/widgets"); len(got) != 0 {
		t.Fatalf("expected no params, got %v", got)
	}
}
