package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Divert12/divert-ai-crew/internal/client/api"
	"github.com/dustin/go-humanize"
)

var errUsage = errors.New("wrong arguments")

func usage(s string) error {
	return fmt.Errorf("%w; usage: %s", errUsage, s)
}

// apiFailure turns a backend error into the message shown to the user.
func apiFailure(action string, err error) error {
	if d := api.Detail(err); d != "" {
		return fmt.Errorf("%s: %s", action, d)
	}
	if errors.Is(err, api.ErrUnavailable) {
		return fmt.Errorf("%s: server unavailable", action)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// Store lists the crews and workflows offered in the store, optionally
// filtered by category.
func (a *App) Store(ctx context.Context, args []string) error {
	category := strings.Join(args, " ")
	cat, err := a.backend.Catalog(ctx, category)
	if err != nil {
		return apiFailure("loading store", err)
	}

	fmt.Fprintln(a.out, titleStyle.Render("Crews"))
	if len(cat.Crews) == 0 {
		fmt.Fprintln(a.out, hintStyle.Render("  none"))
	} else {
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  ID\tNAME\tCATEGORY\tDIFFICULTY")
		for _, c := range cat.Crews {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", c.ID, c.Name, c.Category, c.Difficulty)
		}
		tw.Flush()
	}

	fmt.Fprintln(a.out, titleStyle.Render("Workflows"))
	if len(cat.Workflows) == 0 {
		fmt.Fprintln(a.out, hintStyle.Render("  none"))
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tNAME\tCATEGORY\tNODES")
	for _, w := range cat.Workflows {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\n", w.ID, w.Name, w.Category, w.NodeCount)
	}
	return tw.Flush()
}

// Teams lists the user's installed teams.
func (a *App) Teams(ctx context.Context) error {
	teams, err := a.backend.ListTeams(ctx)
	if err != nil {
		return apiFailure("loading teams", err)
	}
	if len(teams) == 0 {
		fmt.Fprintln(a.out, hintStyle.Render("No teams yet. Add one with 'addteam <crewID>' or 'addworkflow <workflowID>'."))
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tACTIVE\tLAST RUN")
	for _, t := range teams {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", t.ID, t.DisplayName(), t.Kind(), t.IsActive, since(t.LastExecuted))
	}
	return tw.Flush()
}

// AddTeam installs a store crew: addteam <crewID> [name...].
func (a *App) AddTeam(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("addteam <crewID> [name]")
	}
	crewID, err := strconv.Atoi(args[0])
	if err != nil || crewID <= 0 {
		return usage("addteam <crewID> [name]")
	}

	team, err := a.backend.AddCrewTeam(ctx, crewID, strings.Join(args[1:], " "))
	if err != nil {
		return apiFailure("adding team", err)
	}
	fmt.Fprintln(a.out, okStyle.Render(fmt.Sprintf("Team %q added (id %s).", team.DisplayName(), team.ID)))
	return nil
}

// RunTeam executes a team: run <teamID> <topic...>.
func (a *App) RunTeam(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("run <teamID> <topic>")
	}

	fmt.Fprintln(a.out, hintStyle.Render("Running, this can take a few minutes..."))
	res, err := a.backend.RunTeam(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return apiFailure("running team", err)
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = res.Message
		}
		fmt.Fprintln(a.out, errorStyle.Render("Execution failed: "+msg))
		return nil
	}

	fmt.Fprintln(a.out, okStyle.Render(res.Message))
	if res.Data != nil {
		fmt.Fprintln(a.out, formatData(res.Data))
	}
	return nil
}

// RenameTeam sets a team's custom name: rename <teamID> <name...>.
func (a *App) RenameTeam(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("rename <teamID> <name>")
	}
	team, err := a.backend.RenameTeam(ctx, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return apiFailure("renaming team", err)
	}
	fmt.Fprintln(a.out, okStyle.Render(fmt.Sprintf("Team renamed to %q.", team.DisplayName())))
	return nil
}

// RemoveTeam removes a team: rmteam <teamID>.
func (a *App) RemoveTeam(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("rmteam <teamID>")
	}
	msg, err := a.backend.RemoveTeam(ctx, args[0])
	if err != nil {
		return apiFailure("removing team", err)
	}
	fmt.Fprintln(a.out, okStyle.Render(msg))
	return nil
}

// Integrations lists the supported third-party services and their status.
func (a *App) Integrations(ctx context.Context) error {
	list, err := a.backend.ListIntegrations(ctx)
	if err != nil {
		return apiFailure("loading integrations", err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tNAME\tSTATUS\tCONFIGURED")
	for _, in := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", in.ServiceName, in.DisplayName, in.Status, since(in.ConfiguredAt))
	}
	return tw.Flush()
}

// Configure prompts for every credential field of a service and stores
// them: configure <service>. Password-type fields are read without echo.
func (a *App) Configure(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("configure <service>")
	}
	service := strings.ToLower(args[0])

	list, err := a.backend.ListIntegrations(ctx)
	if err != nil {
		return apiFailure("loading integrations", err)
	}
	var found bool
	creds := make(map[string]string)
	for _, in := range list {
		if in.ServiceName != service {
			continue
		}
		found = true
		if in.Instructions != "" {
			fmt.Fprintln(a.out, hintStyle.Render(in.Instructions))
		}
		for _, f := range in.Fields {
			label := f.Label
			if label == "" {
				label = f.Name
			}
			var v string
			if f.Type == "password" {
				v, err = getPassword(label, a.out)
			} else {
				v, err = getSimpleText(a.reader, label, a.out)
			}
			if err != nil {
				return err
			}
			if v == "" && f.Required {
				return fmt.Errorf("%s: %w", label, errEmptyInput)
			}
			if v != "" {
				creds[f.Name] = v
			}
		}
	}
	if !found {
		return fmt.Errorf("unknown service %q; see 'integrations'", service)
	}

	st, err := a.backend.ConfigureIntegration(ctx, service, creds)
	if err != nil {
		return apiFailure("configuring "+service, err)
	}
	fmt.Fprintln(a.out, okStyle.Render(fmt.Sprintf("%s: %s", st.Message, st.Status)))
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// since renders a backend timestamp relative to now. Timestamps without a
// zone are taken as UTC.
func since(ts string) string {
	if ts == "" {
		return "never"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
			return humanize.Time(t)
		}
	}
	return ts
}

func formatData(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case map[string]any:
		if s, ok := d["result"].(string); ok {
			return s
		}
	}
	return fmt.Sprint(v)
}
