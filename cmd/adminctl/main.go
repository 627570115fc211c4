package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-chatadmin/components/admin"
	"github.com/goliatone/go-chatadmin/components/admin/gorouter"
	"github.com/goliatone/go-chatadmin/components/admin/httpapi"
	"github.com/goliatone/go-chatadmin/components/admin/queries"
)

type cli struct {
	LogFormat string `default:"console" enum:"console,json" env:"ADMINCTL_LOG_FORMAT" help:"Log output format (console or json)."`
	LogLevel  string `default:"info" env:"ADMINCTL_LOG_LEVEL" help:"Minimum log level (debug, info, warn, error)."`

	Serve   serveCmd   `cmd:"" help:"Serve the admin JSON API and change event WebSocket."`
	Seed    seedCmd    `cmd:"" help:"Validate or export seed documents."`
	List    listCmd    `cmd:"" help:"List records of an entity with optional search and filters."`
	Snippet snippetCmd `cmd:"" help:"Print the integration snippet of a widget."`
}

type serveCmd struct {
	Addr     string `default:":9876" env:"ADMINCTL_ADDR" help:"Listen address."`
	BasePath string `default:"/admin" env:"ADMINCTL_BASE_PATH" help:"Route prefix for the admin API."`
	SeedPath string `name:"seed" type:"path" env:"ADMINCTL_SEED" help:"Seed YAML loaded on start (defaults to the built in fixtures)."`
}

type seedCmd struct {
	Export   seedExportCmd   `cmd:"" help:"Write a seed document as YAML."`
	Validate seedValidateCmd `cmd:"" help:"Validate a seed document."`
}

type seedExportCmd struct {
	SeedPath string `name:"seed" type:"path" help:"Seed file to normalize (defaults to the built in fixtures)."`
	Out      string `short:"o" type:"path" help:"Output file (defaults to stdout)."`
}

type seedValidateCmd struct {
	SeedPath string `arg:"" name:"file" type:"existingfile" help:"Seed YAML to validate."`
}

type listCmd struct {
	Entity   string   `arg:"" enum:"widgets,models,users,roles,permissions" help:"Entity collection to list."`
	Search   string   `short:"q" help:"Case-insensitive search text."`
	Filter   []string `short:"f" help:"Filter tag as type:value (repeatable)."`
	SeedPath string   `name:"seed" type:"path" env:"ADMINCTL_SEED" help:"Seed YAML to read (defaults to the built in fixtures)."`
}

type snippetCmd struct {
	WidgetID string `arg:"" name:"widget-id" help:"Widget id."`
	Format   string `default:"javascript" help:"Snippet format (javascript, react, npm)."`
	SeedPath string `name:"seed" type:"path" env:"ADMINCTL_SEED" help:"Seed YAML to read (defaults to the built in fixtures)."`
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Description("Administration utility for chat widgets, AI models and users."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	logger, err := newLogger(root.LogFormat, root.LogLevel, os.Stderr)
	ctx.FatalIfErrorf(err)
	ctx.Bind(logger)
	ctx.FatalIfErrorf(ctx.Run())
}

func newLogger(format, level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("adminctl: log level %q: %w", level, err)
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func loadSeed(path string) (admin.SeedDocument, error) {
	if path == "" {
		return admin.DefaultSeed(), nil
	}
	doc, err := admin.ReadSeed(path)
	if err != nil {
		return admin.SeedDocument{}, err
	}
	return *doc, nil
}

func newService(seedPath string, opts admin.Options) (*admin.Service, error) {
	doc, err := loadSeed(seedPath)
	if err != nil {
		return nil, err
	}
	opts.Seed = &doc
	return admin.NewService(opts)
}

func (cmd *serveCmd) Run(_ context.Context, logger zerolog.Logger) error {
	telemetry := admin.NewLogTelemetry(logger)
	broadcast := admin.NewBroadcastHook()
	service, err := newService(cmd.SeedPath, admin.Options{
		RefreshHook: broadcast,
		Telemetry:   telemetry,
	})
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		API:       httpapi.NewHandlers(service, telemetry),
		Broadcast: broadcast,
		BasePath:  cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("adminctl: register routes: %w", err)
	}

	logger.Info().
		Str("addr", cmd.Addr).
		Str("base_path", cmd.BasePath).
		Int("widgets", service.WidgetStore().Len()).
		Int("models", service.ModelStore().Len()).
		Int("users", service.UserStore().Len()).
		Msg("admin api ready")
	return server.Serve(cmd.Addr)
}

func (cmd *seedExportCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := loadSeed(cmd.SeedPath)
	if err != nil {
		return err
	}
	if cmd.Out == "" {
		return admin.EncodeSeed(out, doc)
	}
	file, err := os.Create(cmd.Out) //nolint:gosec
	if err != nil {
		return fmt.Errorf("adminctl: create %s: %w", cmd.Out, err)
	}
	defer file.Close()
	return admin.EncodeSeed(file, doc)
}

func (cmd *seedValidateCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := admin.ReadSeed(cmd.SeedPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %s: %d widgets, %d models, %d users, %d roles, %d permissions\n",
		cmd.SeedPath, len(doc.Widgets), len(doc.Models), len(doc.Users), len(doc.Roles), len(doc.Permissions))
	return nil
}

func (cmd *listCmd) Run(_ context.Context, out io.Writer) error {
	service, err := newService(cmd.SeedPath, admin.Options{})
	if err != nil {
		return err
	}
	var tags []admin.FilterTag
	for _, raw := range cmd.Filter {
		tag, ok := admin.ParseFilterTag(raw)
		if !ok {
			return fmt.Errorf("adminctl: filter %q must be type:value", raw)
		}
		tags = append(tags, tag)
	}

	var records any
	switch cmd.Entity {
	case "widgets":
		records = visible(service.WidgetStore(), admin.WidgetQuerySpec, cmd.Search, tags)
	case "models":
		records = visible(service.ModelStore(), admin.ModelQuerySpec, cmd.Search, tags)
	case "users":
		records = service.UserViews(visible(service.UserStore(), admin.UserQuerySpec, cmd.Search, tags))
	case "roles":
		records = service.RoleViews(visible(service.RoleStore(), admin.RoleQuerySpec, cmd.Search, tags))
	case "permissions":
		records = visible(service.PermissionStore(), admin.PermissionQuerySpec, cmd.Search, tags)
	default:
		return fmt.Errorf("adminctl: unknown entity %q", cmd.Entity)
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{cmd.Entity: records})
}

// visible runs the search and filter tags through a View over store.
func visible[T admin.Record](store *admin.Store[T], spec admin.QuerySpec[T], search string, tags []admin.FilterTag) []T {
	view := admin.NewView(store, spec)
	view.SetSearch(search)
	view.SetFilters(tags)
	return view.Visible()
}

func (cmd *snippetCmd) Run(ctx context.Context, out io.Writer) error {
	service, err := newService(cmd.SeedPath, admin.Options{})
	if err != nil {
		return err
	}
	format, err := admin.ParseSnippetFormat(cmd.Format)
	if err != nil {
		return err
	}
	snippet, err := queries.NewSnippetQuery(service).Query(ctx, queries.SnippetInput{WidgetID: cmd.WidgetID, Format: format})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %s\n%s\n", snippet.Filename, snippet.Code)
	return nil
}
