package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-chatadmin/components/admin"
)

// SeedInput controls which fixtures replace the store contents. Document wins
// over Path; with neither set the built in fixtures are loaded.
type SeedInput struct {
	Path     string
	Document *admin.SeedDocument
}

type seedService interface {
	Seed(ctx context.Context, doc admin.SeedDocument) error
}

// SeedCommand resets every store from a seed document.
type SeedCommand struct {
	service   seedService
	telemetry Telemetry
}

// NewSeedCommand wires dependencies.
func NewSeedCommand(service seedService, telemetry Telemetry) *SeedCommand {
	return &SeedCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedInput] = (*SeedCommand)(nil)

// Execute resolves the seed document and loads it.
func (c *SeedCommand) Execute(ctx context.Context, msg SeedInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	var doc admin.SeedDocument
	source := "default"
	switch {
	case msg.Document != nil:
		doc = *msg.Document
		source = "document"
	case msg.Path != "":
		loaded, err := admin.ReadSeed(msg.Path)
		if err != nil {
			return err
		}
		doc = *loaded
		source = msg.Path
	default:
		doc = admin.DefaultSeed()
	}
	if err := c.service.Seed(ctx, doc); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "admin.command.seed", map[string]any{
		"source":  source,
		"widgets": len(doc.Widgets),
		"models":  len(doc.Models),
		"users":   len(doc.Users),
	})
	return nil
}
