package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"taskboard/internal/app/audit"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	boards map[string]*Board
	org    string
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{boards: make(map[string]*Board), org: "org-1"}
}

func (f *fakeRepo) Create(board *Board) error {
	if board.ID == "" {
		f.nextID++
		board.ID = fmt.Sprintf("board-%d", f.nextID)
	}
	copied := *board
	f.boards[board.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(id, orgID string) (*Board, error) {
	b, ok := f.boards[id]
	if !ok || b.OrgID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) ListByOrg(orgID string) ([]*Board, error) {
	var out []*Board
	for _, b := range f.boards {
		if b.OrgID == orgID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(id, orgID string, updates map[string]interface{}) (*Board, error) {
	b, ok := f.boards[id]
	if !ok || b.OrgID != orgID {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"]; ok {
		b.Title = v.(string)
	}
	if v, ok := updates["image_id"]; ok {
		b.ImageID = v.(string)
	}
	return f.GetByID(id, orgID)
}

func (f *fakeRepo) Delete(id, orgID string) error {
	b, ok := f.boards[id]
	if !ok || b.OrgID != orgID {
		return gorm.ErrRecordNotFound
	}
	delete(f.boards, id)
	return nil
}

type fakeLimits struct {
	count      int
	max        int
	increments int
	decrements int
}

func (f *fakeLimits) Increment(orgID string) error {
	f.count++
	f.increments++
	return nil
}

func (f *fakeLimits) Decrement(orgID string) error {
	if f.count > 0 {
		f.count--
	}
	f.decrements++
	return nil
}

func (f *fakeLimits) HasAvailableCount(orgID string) (bool, error) {
	return f.count < f.max, nil
}

func (f *fakeLimits) GetAvailableCount(orgID string) (int, error) {
	return f.count, nil
}

type fakeAudit struct {
	entries []audit.Entry
}

func (f *fakeAudit) Log(ctx context.Context, auth *identity.Auth, entry audit.Entry) {
	f.entries = append(f.entries, entry)
}

func (f *fakeAudit) ListByOrg(ctx context.Context, auth *identity.Auth, page, limit int) ([]*audit.Log, int64, error) {
	return nil, 0, nil
}

func (f *fakeAudit) ListByEntity(ctx context.Context, auth *identity.Auth, entityID string, limit int) ([]*audit.Log, error) {
	return nil, nil
}

type fakeRevalidator struct {
	stale []string
}

func (f *fakeRevalidator) BoardStale(ctx context.Context, boardID string) {
	f.stale = append(f.stale, boardID)
}

func newTestService(repo *fakeRepo, limits *fakeLimits) (Service, *fakeAudit, *fakeRevalidator) {
	if limits == nil {
		limits = &fakeLimits{max: 5}
	}
	auditSvc := &fakeAudit{}
	reval := &fakeRevalidator{}
	return NewService(repo, limits, auditSvc, reval, zap.NewNop()), auditSvc, reval
}

func testAuth() *identity.Auth {
	return &identity.Auth{UserID: "user-1", OrgID: "org-1"}
}

const validImage = "img-1|https://img/thumb|https://img/full|<a>by someone</a>|Someone"

func TestCreateBoard(t *testing.T) {
	repo := newFakeRepo()
	limits := &fakeLimits{max: 5}
	svc, auditSvc, reval := newTestService(repo, limits)

	board, err := svc.CreateBoard(context.Background(), testAuth(), "Roadmap", validImage)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if board.OrgID != "org-1" {
		t.Errorf("org = %q, want org-1", board.OrgID)
	}
	if board.ImageID != "img-1" || board.ImageUserName != "Someone" {
		t.Errorf("image fields not parsed: %+v", board)
	}
	if limits.increments != 1 {
		t.Errorf("board count incremented %d times, want 1", limits.increments)
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != audit.ActionCreate {
		t.Errorf("expected one CREATE audit entry, got %v", auditSvc.entries)
	}
	if len(reval.stale) != 1 || reval.stale[0] != board.ID {
		t.Errorf("expected new board marked stale, got %v", reval.stale)
	}
}

func TestCreateBoardMissingImageFields(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)

	_, err := svc.CreateBoard(context.Background(), testAuth(), "Roadmap", "img-1|https://img/thumb")
	if err == nil || err.Error() != "Missing fields. Failed to create board" {
		t.Fatalf("expected missing fields error, got %v", err)
	}
	if len(repo.boards) != 0 {
		t.Errorf("board created despite bad image string")
	}
}

func TestCreateBoardUploadedCover(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)

	board, err := svc.CreateBoard(context.Background(), testAuth(), "Roadmap",
		"uploaded|https://files/covers/x.jpg|https://files/covers/x.jpg||")
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if !strings.HasPrefix(board.ImageID, "uploaded-") {
		t.Errorf("image id = %q, want uploaded- prefix", board.ImageID)
	}
	if board.ImageUserName != "Custom Upload" {
		t.Errorf("attribution = %q, want %q", board.ImageUserName, "Custom Upload")
	}
	if board.ImageLinkHTML != "" {
		t.Errorf("uploaded covers carry no link html, got %q", board.ImageLinkHTML)
	}
}

func TestCreateBoardAtQuota(t *testing.T) {
	repo := newFakeRepo()
	limits := &fakeLimits{count: 5, max: 5}
	svc, auditSvc, _ := newTestService(repo, limits)

	_, err := svc.CreateBoard(context.Background(), testAuth(), "One too many", validImage)
	var le *result.LimitError
	if !errors.As(err, &le) {
		t.Fatalf("expected limit error, got %v", err)
	}
	if !strings.Contains(le.Message, "limit of free boards") {
		t.Errorf("message = %q", le.Message)
	}
	if len(repo.boards) != 0 || len(auditSvc.entries) != 0 {
		t.Errorf("quota rejection must not create or audit")
	}
}

func TestCreateBoardTitleValidation(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)

	tests := []struct {
		title string
		want  string
	}{
		{"", "Title is required"},
		{"ab", "Title is too short"},
		{strings.Repeat("x", 51), "Title is too long"},
	}

	for _, tt := range tests {
		_, err := svc.CreateBoard(context.Background(), testAuth(), tt.title, validImage)
		var ve *result.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("title %q: expected validation error, got %v", tt.title, err)
		}
		if msgs := ve.Fields["title"]; len(msgs) != 1 || msgs[0] != tt.want {
			t.Errorf("title %q: field errors = %v, want [%s]", tt.title, msgs, tt.want)
		}
	}
}

func TestUpdateBoardMissingImageFields(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)
	auth := testAuth()

	board, err := svc.CreateBoard(context.Background(), auth, "Roadmap", validImage)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	bad := "only-an-id"
	_, err = svc.UpdateBoard(context.Background(), auth, board.ID, nil, &bad)
	if err == nil || err.Error() != "Missing image fields. Failed to update board" {
		t.Fatalf("expected missing image fields error, got %v", err)
	}
}

func TestDeleteBoardDecrementsQuota(t *testing.T) {
	repo := newFakeRepo()
	limits := &fakeLimits{count: 1, max: 5}
	repo.boards["b1"] = &Board{ID: "b1", OrgID: "org-1", Title: "Old"}
	svc, auditSvc, _ := newTestService(repo, limits)

	board, err := svc.DeleteBoard(context.Background(), testAuth(), "b1")
	if err != nil {
		t.Fatalf("DeleteBoard: %v", err)
	}
	if board.Title != "Old" {
		t.Errorf("expected the deleted board back, got %q", board.Title)
	}
	if limits.decrements != 1 {
		t.Errorf("board count decremented %d times, want 1", limits.decrements)
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != audit.ActionDelete {
		t.Errorf("expected one DELETE audit entry, got %v", auditSvc.entries)
	}
}

func TestGetBoardScopedToOrganization(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["b1"] = &Board{ID: "b1", OrgID: "org-1", Title: "Private"}
	svc, _, _ := newTestService(repo, nil)

	outsider := &identity.Auth{UserID: "user-2", OrgID: "org-2"}
	_, err := svc.GetBoard(context.Background(), outsider, "b1")
	var nf *result.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Board" {
		t.Fatalf("expected Board not found for another org, got %v", err)
	}
}

func TestParseCoverImage(t *testing.T) {
	cover, err := parseCoverImage(validImage)
	if err != nil {
		t.Fatalf("parseCoverImage: %v", err)
	}
	if cover.ID != "img-1" || cover.LinkHTML != "<a>by someone</a>" {
		t.Errorf("parsed = %+v", cover)
	}

	if _, err := parseCoverImage("a|b|c|d"); err == nil {
		t.Error("expected error for four fields")
	}
	if _, err := parseCoverImage(""); err == nil {
		t.Error("expected error for empty string")
	}
}
