package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexdesk/lexdesk/internal/doctype"
	"github.com/lexdesk/lexdesk/internal/export"
	"github.com/lexdesk/lexdesk/internal/model"
	"github.com/lexdesk/lexdesk/internal/render"
	"github.com/lexdesk/lexdesk/internal/repository"
	"github.com/lexdesk/lexdesk/internal/storage"
	"github.com/lexdesk/lexdesk/internal/validation"
)

var (
	ErrForbiddenPath     = errors.New("document path is outside the upload directory")
	ErrDocumentFile      = errors.New("document file is missing")
	ErrBatchCommit       = errors.New("failed to save generated documents")
	ErrUnknownDocType    = errors.New("unknown document type")
	ErrDocTypeNotAllowed = errors.New("document type is not offered for this case type")
	ErrNoDocTypes        = errors.New("select at least one document type")
	ErrNoRecipient       = errors.New("document has no client email to send to")
	ErrFilenameExhausted = errors.New("no free filename")
)

// maxFilenameAttempts bounds the "-N" suffixes tried when a filename is taken.
const maxFilenameAttempts = 100

type DocumentService struct {
	store        *repository.Store
	storage      storage.Storage
	renderer     *render.Renderer
	templates    *TemplateService
	customFields *CustomFieldService
	email        *EmailService
	uploadDir    string
	appURL       string
	now          Clock
}

type DocumentServiceConfig struct {
	UploadDir string
	AppURL    string
	Now       Clock
}

func NewDocumentService(
	store *repository.Store,
	files storage.Storage,
	renderer *render.Renderer,
	templates *TemplateService,
	customFields *CustomFieldService,
	email *EmailService,
	cfg DocumentServiceConfig,
) *DocumentService {
	now := cfg.Now
	if now == nil {
		now = utcNow
	}
	return &DocumentService{
		store:        store,
		storage:      files,
		renderer:     renderer,
		templates:    templates,
		customFields: customFields,
		email:        email,
		uploadDir:    strings.Trim(path.Clean(cfg.UploadDir), "/"),
		appURL:       strings.TrimSuffix(cfg.AppURL, "/"),
		now:          now,
	}
}

func (s *DocumentService) UploadDir() string {
	return s.uploadDir
}

// Context builds the render context for c: its client, the acting user and
// the case's custom values. A missing client renders as empty.
func (s *DocumentService) Context(c *model.Case, user *model.User) (render.Context, error) {
	var client *model.Client
	if c.ClientID != nil {
		cl, err := s.store.Clients.ByID(*c.ClientID)
		if err != nil && !errors.Is(err, repository.ErrClientNotFound) {
			return render.Context{}, fmt.Errorf("failed to load client: %w", err)
		}
		client = cl
	}

	data := render.NewContext(c, client, user, s.now())

	custom, err := s.customFields.TemplateValues(model.TargetCase, c.ID)
	if err != nil {
		return render.Context{}, err
	}
	data.Custom = custom

	return data, nil
}

// Render executes a resolved body against data.
func (s *DocumentService) Render(resolved *Resolved, data render.Context) (string, error) {
	data.Slug = resolved.Slug
	data.Label = resolved.Label
	return s.renderer.Render(resolved.Body, resolved.Format, data)
}

// Persist writes rendered under the upload directory and returns the
// document row describing it. The row is not inserted. The file is created
// exclusively: a taken name is retried with a "-N" suffix.
func (s *DocumentService) Persist(rendered string, c *model.Case, slug, base string) (*model.Document, error) {
	now := s.now()

	stem := strings.TrimSuffix(validation.SecureFilename(base), ".html")
	if stem == "" {
		ref := validation.SecureFilename(c.Reference())
		if ref == "" {
			ref = "case_" + c.ID
		}
		stem = fmt.Sprintf("%s_%s_%d", ref, slug, now.Unix())
	}

	data := []byte(rendered)
	for n := 0; n < maxFilenameAttempts; n++ {
		filename := stem + ".html"
		if n > 0 {
			filename = fmt.Sprintf("%s-%d.html", stem, n)
		}
		key := path.Join(s.uploadDir, filename)

		err := s.storage.Create(key, data)
		if errors.Is(err, storage.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", filename, err)
		}

		return &model.Document{
			ID:         uuid.New().String(),
			Filename:   filename,
			Filepath:   key,
			DocType:    slug,
			CaseID:     &c.ID,
			ClientID:   c.ClientID,
			UploadedAt: now,
		}, nil
	}

	return nil, fmt.Errorf("%w for %s", ErrFilenameExhausted, stem)
}

// Failure is one document type that could not be generated.
type Failure struct {
	Slug  string
	Label string
	Err   error
}

// BatchResult reports a generation run. Documents are only set once they
// are committed.
type BatchResult struct {
	Documents []*model.Document
	Failures  []Failure
}

// GenerateForCase renders and stores one document per slug. A failing slug
// is recorded and the rest continue. All resulting rows are inserted in one
// transaction; if that fails the returned error wraps ErrBatchCommit and
// the files already written are left for Reconcile.
func (s *DocumentService) GenerateForCase(caseID string, slugs []string, user *model.User) (*BatchResult, error) {
	if len(slugs) == 0 {
		return nil, ErrNoDocTypes
	}

	c, err := s.store.Cases.ByID(caseID)
	if err != nil {
		return nil, err
	}

	data, err := s.Context(c, user)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{}
	var pending []*model.Document

	for _, slug := range slugs {
		label := doctype.Label(slug)
		if !doctype.Known(slug) {
			result.Failures = append(result.Failures, Failure{Slug: slug, Label: label, Err: ErrUnknownDocType})
			continue
		}

		doc, err := s.generateOne(c, slug, data)
		if err != nil {
			slog.Warn("document generation failed", "error", err, "case_id", c.ID, "slug", slug)
			result.Failures = append(result.Failures, Failure{Slug: slug, Label: label, Err: err})
			continue
		}
		pending = append(pending, doc)
	}

	if len(pending) == 0 {
		return result, nil
	}

	err = s.store.InTx(func(tx *repository.Repositories) error {
		for _, doc := range pending {
			err := tx.Documents.Create(doc)
			if err != nil {
				return fmt.Errorf("insert %s: %w", doc.Filename, err)
			}
		}
		return nil
	})
	if err != nil {
		orphans := make([]string, 0, len(pending))
		for _, doc := range pending {
			orphans = append(orphans, doc.Filepath)
		}
		slog.Error("failed to commit generated documents", "error", err, "case_id", c.ID, "orphans", orphans)
		return result, fmt.Errorf("%w: %w", ErrBatchCommit, err)
	}

	result.Documents = pending
	slog.Info("documents generated", "case_id", c.ID, "count", len(pending), "failures", len(result.Failures))
	return result, nil
}

func (s *DocumentService) generateOne(c *model.Case, slug string, data render.Context) (*model.Document, error) {
	resolved, err := s.templates.Resolve(slug)
	if err != nil {
		return nil, err
	}

	rendered, err := s.Render(resolved, data)
	if err != nil {
		return nil, err
	}

	return s.Persist(rendered, c, slug, "")
}

// GenerateFromTemplate renders a stored template for a case and saves the
// result as one document. base is an optional filename.
func (s *DocumentService) GenerateFromTemplate(templateID, caseID, base string, user *model.User) (*model.Document, error) {
	t, err := s.templates.ByID(templateID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Cases.ByID(caseID)
	if err != nil {
		return nil, err
	}

	data, err := s.Context(c, user)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		Label:      t.Name,
		Body:       t.Content,
		Format:     templateFormat(t.Format),
		Source:     SourceOverride,
		TemplateID: t.ID,
	}
	rendered, err := s.Render(resolved, data)
	if err != nil {
		return nil, err
	}

	if validation.SecureFilename(base) == "" {
		base = fmt.Sprintf("%s_%s_%d", t.Name, c.Reference(), s.now().Unix())
	}

	doc, err := s.Persist(rendered, c, "", base)
	if err != nil {
		return nil, err
	}

	err = s.store.Documents.Create(doc)
	if err != nil {
		slog.Error("failed to save generated document", "error", err, "orphan", doc.Filepath)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return doc, nil
}

// PreviewSlug renders the body resolved for slug without saving anything.
// With caseID empty the template renders against an empty case.
func (s *DocumentService) PreviewSlug(slug, caseID string, user *model.User) (string, *Resolved, error) {
	resolved, err := s.templates.Resolve(slug)
	if err != nil {
		return "", nil, err
	}

	data := render.NewContext(nil, nil, user, s.now())
	if caseID != "" {
		c, err := s.store.Cases.ByID(caseID)
		if err != nil {
			return "", nil, err
		}
		data, err = s.Context(c, user)
		if err != nil {
			return "", nil, err
		}
	}

	rendered, err := s.Render(resolved, data)
	if err != nil {
		return "", resolved, err
	}
	return rendered, resolved, nil
}

// Preview returns the stored content of a document and stamps it viewed.
// Paths outside the upload directory fail with ErrForbiddenPath.
func (s *DocumentService) Preview(id string) (*model.Document, []byte, error) {
	doc, err := s.store.Documents.ByID(id)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.ReadFile(doc.Filepath)
	if err != nil {
		return doc, nil, err
	}

	now := s.now()
	err = s.store.Documents.MarkViewed(doc.ID, now)
	if err != nil {
		slog.Warn("failed to mark document viewed", "error", err, "document_id", doc.ID)
	} else {
		doc.LastViewedAt = &now
	}

	return doc, content, nil
}

// ReadFile reads a stored file by its key. Only keys inside the upload
// directory are served.
func (s *DocumentService) ReadFile(key string) ([]byte, error) {
	if !storage.Within(key, s.uploadDir) {
		return nil, fmt.Errorf("%w: %q", ErrForbiddenPath, key)
	}

	rc, err := s.storage.Open(key)
	if errors.Is(err, storage.ErrOutsideRoot) {
		return nil, fmt.Errorf("%w: %q", ErrForbiddenPath, key)
	}
	if errors.Is(err, storage.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentFile, key)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// PDF converts a stored document to PDF. The footer QR code links to the
// document's page.
func (s *DocumentService) PDF(id string, w io.Writer) (*model.Document, error) {
	doc, err := s.store.Documents.ByID(id)
	if err != nil {
		return nil, err
	}

	content, err := s.ReadFile(doc.Filepath)
	if err != nil {
		return doc, err
	}

	err = export.PDF(w, content, export.PDFOptions{
		Title: strings.TrimSuffix(doc.Filename, ".html"),
		Link:  s.appURL + "/documents/" + doc.ID,
	})
	if err != nil {
		return doc, fmt.Errorf("failed to export PDF: %w", err)
	}

	return doc, nil
}

// Send emails a document to its client.
func (s *DocumentService) Send(ctx context.Context, id string) (*model.Document, string, error) {
	doc, err := s.store.Documents.ByID(id)
	if err != nil {
		return nil, "", err
	}

	var c *model.Case
	clientID := doc.ClientID
	if doc.CaseID != nil {
		c, err = s.store.Cases.ByID(*doc.CaseID)
		if err != nil && !errors.Is(err, repository.ErrCaseNotFound) {
			return doc, "", err
		}
		if clientID == nil && c != nil {
			clientID = c.ClientID
		}
	}
	if clientID == nil {
		return doc, "", ErrNoRecipient
	}

	client, err := s.store.Clients.ByID(*clientID)
	if errors.Is(err, repository.ErrClientNotFound) {
		return doc, "", ErrNoRecipient
	}
	if err != nil {
		return doc, "", err
	}
	if client.Email == "" {
		return doc, "", ErrNoRecipient
	}

	content, err := s.ReadFile(doc.Filepath)
	if err != nil {
		return doc, "", err
	}

	msg := DocumentEmail{
		To:         client.Email,
		ClientName: client.Name,
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		HTML:       content,
	}
	if c != nil {
		msg.CaseStyle = c.Style
	}

	err = s.email.SendDocument(ctx, msg)
	if err != nil {
		return doc, "", fmt.Errorf("failed to send document: %w", err)
	}

	return doc, client.Email, nil
}

func (s *DocumentService) Documents(sortBy string) ([]*model.DocumentListItem, error) {
	return s.store.Documents.Documents(sortBy)
}

func (s *DocumentService) ByID(id string) (*model.Document, error) {
	return s.store.Documents.ByID(id)
}

// Delete removes the row, then the file. A file that cannot be removed is
// logged and left for Reconcile.
func (s *DocumentService) Delete(id string) error {
	doc, err := s.store.Documents.ByID(id)
	if err != nil {
		return err
	}

	err = s.store.Documents.Delete(id)
	if err != nil {
		return err
	}

	if !storage.Within(doc.Filepath, s.uploadDir) {
		return nil
	}
	err = s.storage.Delete(doc.Filepath)
	if err != nil && !errors.Is(err, storage.ErrNotExist) {
		slog.Warn("failed to delete document file", "error", err, "path", doc.Filepath)
	}
	return nil
}

// ReconcileReport lists what a reconcile run found.
type ReconcileReport struct {
	Checked int
	// Orphans are unreferenced files older than the grace period.
	Orphans []string
	// Removed is the subset of Orphans actually deleted.
	Removed []string
	// Recent counts unreferenced files still inside the grace period.
	Recent int
}

// Reconcile finds files under the upload directory that no document row
// references and deletes those older than grace. With dryRun nothing is
// deleted.
func (s *DocumentService) Reconcile(grace time.Duration, dryRun bool) (*ReconcileReport, error) {
	objects, err := s.storage.List(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	referenced, err := s.store.Documents.Filepaths()
	if err != nil {
		return nil, fmt.Errorf("failed to load document paths: %w", err)
	}

	cutoff := s.now().Add(-grace)
	report := &ReconcileReport{Checked: len(objects)}

	for _, obj := range objects {
		if referenced[obj.Key] {
			continue
		}
		if obj.ModTime.After(cutoff) {
			report.Recent++
			continue
		}

		report.Orphans = append(report.Orphans, obj.Key)
		if dryRun {
			continue
		}

		err := s.storage.Delete(obj.Key)
		if err != nil {
			slog.Warn("failed to delete orphan", "error", err, "path", obj.Key)
			continue
		}
		report.Removed = append(report.Removed, obj.Key)
	}

	slog.Info("reconcile finished",
		"checked", report.Checked,
		"orphans", len(report.Orphans),
		"removed", len(report.Removed),
		"recent", report.Recent,
		"dry_run", dryRun,
	)
	return report, nil
}

// PDFBytes is PDF into memory.
func (s *DocumentService) PDFBytes(id string) (*model.Document, []byte, error) {
	var buf bytes.Buffer
	doc, err := s.PDF(id, &buf)
	if err != nil {
		return doc, nil, err
	}
	return doc, buf.Bytes(), nil
}
