package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"toolindex/internal/config"
	gh "toolindex/internal/github"
	"toolindex/internal/models"
	"toolindex/internal/repository"
)

const maxErrorMessageLen = 500

// ContentsClient is the slice of the GitHub client the exporter needs.
type ContentsClient interface {
	GetFile(ctx context.Context, owner, repo, path, ref string) (gh.RemoteFile, error)
	PutFile(ctx context.Context, owner, repo, path string, content []byte, opts gh.PutFileOptions) error
}

// Exporter renders the approved-tool catalog into two artifacts and publishes
// each to the configured repository only when its content actually changed.
// Every invocation, success or failure, leaves exactly one ExportAttempt row.
type Exporter struct {
	Repo   repository.Repository
	GitHub ContentsClient
	Config config.ExportConfig
	Logger *zap.Logger
}

// Result summarizes one export invocation.
type Result struct {
	ToolCount    int      `json:"tool_count"`
	FilesUpdated []string `json:"files_updated"`
}

// Export runs one catalog export. trigger distinguishes scheduled from
// operator-invoked runs in the audit trail.
func (e *Exporter) Export(ctx context.Context, trigger string) (Result, error) {
	result, err := e.run(ctx)
	e.recordAttempt(ctx, result, trigger, err)
	return result, err
}

func (e *Exporter) run(ctx context.Context) (Result, error) {
	result := Result{FilesUpdated: []string{}}
	if e == nil || e.Repo == nil || e.GitHub == nil {
		return result, errors.New("exporter not configured")
	}
	if e.Config.Owner == "" || e.Config.Repo == "" {
		return result, errors.New("export target repository not configured")
	}

	tools, err := e.Repo.ListApprovedTools(ctx)
	if err != nil {
		return result, fmt.Errorf("list approved tools: %w", err)
	}
	result.ToolCount = len(tools)

	toolIDs := make([]uint64, 0, len(tools))
	for _, t := range tools {
		toolIDs = append(toolIDs, t.ID)
	}
	tagsByTool, err := e.Repo.ListCategoryTagsByToolIDs(ctx, toolIDs)
	if err != nil {
		return result, fmt.Errorf("list category tags: %w", err)
	}

	catalog := BuildCatalog(tools, tagsByTool)

	dataContent, err := RenderDataFile(catalog)
	if err != nil {
		return result, fmt.Errorf("render data file: %w", err)
	}
	indexContent := RenderIndexFile(catalog)

	for _, artifact := range []struct {
		path    string
		content []byte
	}{
		{e.Config.DataFilePath, dataContent},
		{e.Config.IndexFilePath, indexContent},
	} {
		changed, err := e.publishFile(ctx, artifact.path, artifact.content)
		if err != nil {
			return result, fmt.Errorf("publish %s: %w", artifact.path, err)
		}
		if changed {
			result.FilesUpdated = append(result.FilesUpdated, artifact.path)
		}
	}

	if e.Logger != nil {
		e.Logger.Info("catalog export complete",
			zap.Int("tools", result.ToolCount),
			zap.Strings("files_updated", result.FilesUpdated),
		)
	}
	return result, nil
}

// publishFile is the content-addressed write: fetch current, compare, and
// only write when the rendered bytes differ. The remote SHA doubles as the
// optimistic-concurrency token on update.
func (e *Exporter) publishFile(ctx context.Context, path string, content []byte) (bool, error) {
	current, err := e.GitHub.GetFile(ctx, e.Config.Owner, e.Config.Repo, path, e.Config.Branch)
	if err != nil {
		return false, err
	}
	if current.Exists && bytes.Equal(current.Content, content) {
		return false, nil
	}
	err = e.GitHub.PutFile(ctx, e.Config.Owner, e.Config.Repo, path, content, gh.PutFileOptions{
		Branch:      e.Config.Branch,
		Message:     "chore: update " + path,
		SHA:         current.SHA,
		AuthorName:  e.Config.CommitAuthor,
		AuthorEmail: e.Config.CommitEmail,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// recordAttempt appends the audit row. Observability is best-effort: a
// failure to write the row is logged, never raised past the cycle.
func (e *Exporter) recordAttempt(ctx context.Context, result Result, trigger string, runErr error) {
	if e == nil || e.Repo == nil {
		return
	}
	files := result.FilesUpdated
	if files == nil {
		files = []string{}
	}
	filesJSON, err := json.Marshal(files)
	if err != nil {
		filesJSON = []byte("[]")
	}
	attempt := &models.ExportAttempt{
		ExportedAt:    time.Now().UTC(),
		ToolCount:     result.ToolCount,
		FilesUpdated:  filesJSON,
		TriggerSource: trigger,
		Status:        models.ExportStatusSuccess,
	}
	if runErr != nil {
		attempt.Status = models.ExportStatusError
		msg := truncate(runErr.Error(), maxErrorMessageLen)
		attempt.ErrorMessage = &msg
	}
	if err := e.Repo.InsertExportAttempt(ctx, attempt); err != nil && e.Logger != nil {
		e.Logger.Warn("record export attempt failed", zap.Error(err))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
