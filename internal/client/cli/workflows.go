package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
)

// parsePairs reads key=value arguments. Keys must be non-empty and unique.
func parsePairs(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q is not key=value", errUsage, arg)
		}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("%w: %q given twice", errUsage, k)
		}
		out[k] = v
	}
	return out, nil
}

func workflowID(arg string) (int, bool) {
	id, err := strconv.Atoi(arg)
	return id, err == nil && id > 0
}

// Categories lists the store categories across crews and workflows.
func (a *App) Categories(ctx context.Context) error {
	cats, err := a.backend.Categories(ctx)
	if err != nil {
		return apiFailure("loading categories", err)
	}
	if len(cats.Categories) == 0 {
		fmt.Fprintln(a.out, hintStyle.Render("No categories yet."))
		return nil
	}
	fmt.Fprintln(a.out, titleStyle.Render("Categories"))
	for _, c := range cats.Categories {
		fmt.Fprintln(a.out, "  "+c)
	}
	fmt.Fprintln(a.out, hintStyle.Render(fmt.Sprintf("%d from crews, %d from workflows. Filter with 'store <category>'.",
		cats.Sources.Crews, cats.Sources.Workflows)))
	return nil
}

// AddWorkflow installs a store workflow: addworkflow <workflowID> [name...].
func (a *App) AddWorkflow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("addworkflow <workflowID> [name]")
	}
	id, ok := workflowID(args[0])
	if !ok {
		return usage("addworkflow <workflowID> [name]")
	}

	team, err := a.backend.AddWorkflowTeam(ctx, id, strings.Join(args[1:], " "))
	if err != nil {
		return apiFailure("adding workflow", err)
	}
	fmt.Fprintln(a.out, okStyle.Render(fmt.Sprintf("Workflow %q added (id %s).", team.DisplayName(), team.ID)))
	return nil
}

// CloneWorkflow clones a workflow template with the credentials to bind:
// clone <template> [service=credentialID...].
func (a *App) CloneWorkflow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("clone <template> [service=credentialID ...]")
	}
	creds, err := parsePairs(args[1:])
	if err != nil {
		return err
	}

	res, err := a.backend.CloneWorkflow(ctx, args[0], creds)
	if err != nil {
		return apiFailure("cloning "+args[0], err)
	}
	fmt.Fprintln(a.out, okStyle.Render(res.Message))
	if res.WebhookURL != "" {
		fmt.Fprintln(a.out, "Webhook: "+res.WebhookURL)
	}
	return nil
}

// Workflow shows a workflow and the credentials it still needs:
// workflow <workflowID>.
func (a *App) Workflow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("workflow <workflowID>")
	}
	id, ok := workflowID(args[0])
	if !ok {
		return usage("workflow <workflowID>")
	}

	wf, err := a.backend.GetWorkflow(ctx, id)
	if err != nil {
		return apiFailure("loading workflow", err)
	}

	fmt.Fprintln(a.out, titleStyle.Render(wf.Name))
	if wf.Description != "" {
		fmt.Fprintln(a.out, wf.Description)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Category:\t%s\n", wf.Category)
	fmt.Fprintf(tw, "Nodes:\t%d\n", wf.NodeCount)
	if len(wf.Integrations) > 0 {
		fmt.Fprintf(tw, "Integrations:\t%s\n", strings.Join(wf.Integrations, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	services := make([]string, 0, len(wf.CredentialStatus))
	for s := range wf.CredentialStatus {
		services = append(services, s)
	}
	slices.Sort(services)
	for _, s := range services {
		if wf.CredentialStatus[s] {
			fmt.Fprintln(a.out, okStyle.Render("  "+s+": configured"))
		} else {
			fmt.Fprintln(a.out, errorStyle.Render("  "+s+": missing"))
		}
	}
	if len(wf.MissingCredentials) > 0 {
		fmt.Fprintln(a.out, hintStyle.Render("Configure "+strings.Join(wf.MissingCredentials, ", ")+" with 'configure <service>' before running."))
	}
	return nil
}

// RunWorkflow executes a workflow: runworkflow <workflowID> [key=value...].
func (a *App) RunWorkflow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("runworkflow <workflowID> [key=value ...]")
	}
	id, ok := workflowID(args[0])
	if !ok {
		return usage("runworkflow <workflowID> [key=value ...]")
	}
	pairs, err := parsePairs(args[1:])
	if err != nil {
		return err
	}
	inputs := make(map[string]any, len(pairs))
	for k, v := range pairs {
		inputs[k] = v
	}

	fmt.Fprintln(a.out, hintStyle.Render("Running workflow..."))
	res, err := a.backend.ExecuteWorkflow(ctx, id, inputs)
	if err != nil {
		return apiFailure("running workflow", err)
	}
	if !res.Result.Success {
		msg := res.Result.Error
		if msg == "" {
			msg = res.Status
		}
		fmt.Fprintln(a.out, errorStyle.Render("Execution failed: "+msg))
		return nil
	}

	fmt.Fprintln(a.out, okStyle.Render(fmt.Sprintf("Execution %s: %s", res.ExecutionID, res.Status)))
	if res.Result.Data != nil {
		fmt.Fprintln(a.out, formatData(res.Result.Data))
	}
	return nil
}
