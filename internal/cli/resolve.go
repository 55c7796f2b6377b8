package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/costwise/internal/domain"
)

// resolveProject accepts a project code (case-insensitive) or a numeric id.
func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("project is required")
	}
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		p, err := app.Projects.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("project #%d: %w", id, err)
		}
		return p, nil
	}
	p, err := app.Projects.GetByCode(ctx, strings.ToUpper(input))
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", input, err)
	}
	return p, nil
}

// resolveNode accepts an outline code ("1.2") or "#<id>" and returns the
// node from the project's tree.
func resolveNode(ctx context.Context, app *App, projectID int64, input string) (*domain.WBSNode, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("wbs node is required")
	}
	tree, err := app.Projects.Tree(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if raw, ok := strings.CutPrefix(input, "#"); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid node id %q", input)
		}
		if n := tree.Node(id); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("wbs node #%d not found in project", id)
	}
	if n := tree.FindByCode(input); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("wbs node %q not found in project (use an outline code or #id)", input)
}

// resolveProjectNode resolves the PROJECT NODE argument pair.
func resolveProjectNode(ctx context.Context, app *App, args []string) (*domain.Project, *domain.WBSNode, error) {
	p, err := resolveProject(ctx, app, args[0])
	if err != nil {
		return nil, nil, err
	}
	n, err := resolveNode(ctx, app, p.ID, args[1])
	if err != nil {
		return nil, nil, err
	}
	return p, n, nil
}

func parseID(kind, input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(input), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, input)
	}
	return id, nil
}
