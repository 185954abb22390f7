package list

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"testing"

	"taskboard/internal/app/audit"
	"taskboard/internal/app/card"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	lists     map[string]*List
	boards    map[string]bool
	org       string
	nextID    int
	batches   [][]OrderUpdate
	cloned    map[string][]*card.Card
	failBatch bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		lists:  make(map[string]*List),
		boards: make(map[string]bool),
		org:    "org-1",
		cloned: make(map[string][]*card.Card),
	}
}

func (f *fakeRepo) add(id, boardID, title string, order int) *List {
	l := &List{ID: id, BoardID: boardID, Title: title, Order: order}
	f.lists[id] = l
	return l
}

func (f *fakeRepo) GetByID(id, orgID string) (*List, error) {
	l, ok := f.lists[id]
	if !ok || orgID != f.org {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeRepo) ListByBoard(boardID string) ([]*List, error) {
	var out []*List
	for _, l := range f.lists {
		if l.BoardID == boardID {
			copied := *l
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeRepo) BoardExists(boardID, orgID string) (bool, error) {
	return f.boards[boardID] && orgID == f.org, nil
}

func (f *fakeRepo) MaxOrder(boardID string) (sql.NullInt64, error) {
	var max sql.NullInt64
	for _, l := range f.lists {
		if l.BoardID == boardID && (!max.Valid || int64(l.Order) > max.Int64) {
			max = sql.NullInt64{Int64: int64(l.Order), Valid: true}
		}
	}
	return max, nil
}

func (f *fakeRepo) Create(list *List) error {
	if list.ID == "" {
		f.nextID++
		list.ID = fmt.Sprintf("list-%d", f.nextID)
	}
	copied := *list
	f.lists[list.ID] = &copied
	return nil
}

func (f *fakeRepo) UpdateTitle(id, orgID, title string) (*List, error) {
	l, ok := f.lists[id]
	if !ok || orgID != f.org {
		return nil, gorm.ErrRecordNotFound
	}
	l.Title = title
	return f.GetByID(id, orgID)
}

func (f *fakeRepo) CloneWithCards(clone *List, sourceCards []*card.Card) error {
	if err := f.Create(clone); err != nil {
		return err
	}
	f.cloned[clone.ID] = sourceCards
	return nil
}

func (f *fakeRepo) BatchReorder(orgID string, items []OrderUpdate) error {
	if f.failBatch {
		return errors.New("connection reset")
	}
	for _, item := range items {
		l, ok := f.lists[item.ID]
		if !ok || orgID != f.org {
			return gorm.ErrRecordNotFound
		}
		l.Order = item.Order
	}
	f.batches = append(f.batches, items)
	return nil
}

func (f *fakeRepo) Delete(id, orgID string) error {
	if _, ok := f.lists[id]; !ok || orgID != f.org {
		return gorm.ErrRecordNotFound
	}
	delete(f.lists, id)
	return nil
}

// fakeCardRepo serves CloneList, which only reads the source list's
// cards.
type fakeCardRepo struct {
	cards map[string][]*card.Card
}

func (f *fakeCardRepo) GetByID(id, orgID string) (*card.Card, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCardRepo) ListByList(listID string) ([]*card.Card, error) {
	return f.cards[listID], nil
}
func (f *fakeCardRepo) MaxOrder(listID string) (sql.NullInt64, error) {
	return sql.NullInt64{}, nil
}
func (f *fakeCardRepo) GetListBoard(listID, orgID string) (string, error) {
	return "", gorm.ErrRecordNotFound
}
func (f *fakeCardRepo) Create(c *card.Card) error { return nil }
func (f *fakeCardRepo) Update(id, orgID string, updates map[string]interface{}) (*card.Card, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCardRepo) CloneWithLabels(clone *card.Card, sourceCardID string) error { return nil }
func (f *fakeCardRepo) BatchReorder(orgID string, items []card.OrderUpdate) error   { return nil }
func (f *fakeCardRepo) Delete(id, orgID string) error                               { return nil }

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

func newTestService(repo *fakeRepo, cards *fakeCardRepo) (Service, *fakeAudit, *fakeRevalidator) {
	if cards == nil {
		cards = &fakeCardRepo{cards: make(map[string][]*card.Card)}
	}
	auditSvc := &fakeAudit{}
	reval := &fakeRevalidator{}
	return NewService(repo, cards, auditSvc, reval, zap.NewNop()), auditSvc, reval
}

func testAuth() *identity.Auth {
	return &identity.Auth{UserID: "user-1", OrgID: "org-1"}
}

func TestCreateListFirstOnBoardStartsAtZero(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	svc, auditSvc, reval := newTestService(repo, nil)

	list, err := svc.CreateList(context.Background(), testAuth(), "board-1", "To Do")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if list.Order != 0 {
		t.Errorf("order = %d, want 0", list.Order)
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != audit.ActionCreate {
		t.Errorf("expected one CREATE audit entry, got %v", auditSvc.entries)
	}
	if len(reval.stale) != 1 || reval.stale[0] != "board-1" {
		t.Errorf("expected board-1 marked stale, got %v", reval.stale)
	}
}

func TestCreateListAppendsAfterLastSibling(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "To Do", 0)
	repo.add("b", "board-1", "Doing", 1)
	svc, _, _ := newTestService(repo, nil)

	list, err := svc.CreateList(context.Background(), testAuth(), "board-1", "Done")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if list.Order != 2 {
		t.Errorf("order = %d, want 2", list.Order)
	}
}

func TestCreateListUnknownBoard(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo, nil)

	_, err := svc.CreateList(context.Background(), testAuth(), "missing", "To Do")
	var nf *result.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Board" {
		t.Fatalf("expected Board not found, got %v", err)
	}
}

func TestCloneListCopiesCardsVerbatim(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "To Do", 0)
	cards := &fakeCardRepo{cards: map[string][]*card.Card{
		"a": {
			{ID: "c1", ListID: "a", Title: "First", Order: 1},
			{ID: "c2", ListID: "a", Title: "Second", Order: 2},
		},
	}}
	svc, auditSvc, _ := newTestService(repo, cards)

	clone, err := svc.CloneList(context.Background(), testAuth(), "a")
	if err != nil {
		t.Fatalf("CloneList: %v", err)
	}
	if clone.Title != "To Do - Clone" {
		t.Errorf("title = %q, want %q", clone.Title, "To Do - Clone")
	}
	if clone.Order != 1 {
		t.Errorf("order = %d, want 1", clone.Order)
	}

	copied := repo.cloned[clone.ID]
	if len(copied) != 2 {
		t.Fatalf("copied %d cards, want 2", len(copied))
	}
	// Card order values carry over unchanged.
	if copied[0].Order != 1 || copied[1].Order != 2 {
		t.Errorf("card orders = %d, %d, want 1, 2", copied[0].Order, copied[1].Order)
	}

	if len(auditSvc.entries) != 1 {
		t.Errorf("a clone is one audit entry, got %d", len(auditSvc.entries))
	}
}

func TestMoveListRenumbersBoard(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "A", 0)
	repo.add("b", "board-1", "B", 1)
	repo.add("c", "board-1", "C", 2)
	svc, auditSvc, reval := newTestService(repo, nil)

	if _, err := svc.MoveList(context.Background(), testAuth(), "c", 0); err != nil {
		t.Fatalf("MoveList: %v", err)
	}

	wantOrders := map[string]int{"c": 0, "a": 1, "b": 2}
	for id, want := range wantOrders {
		if got := repo.lists[id].Order; got != want {
			t.Errorf("list %s order = %d, want %d", id, got, want)
		}
	}
	if len(auditSvc.entries) != 0 {
		t.Errorf("reorders must not be audited, got %v", auditSvc.entries)
	}
	if len(reval.stale) != 1 {
		t.Errorf("expected one invalidation, got %v", reval.stale)
	}
}

func TestMoveListClampsIndex(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "A", 0)
	repo.add("b", "board-1", "B", 1)
	svc, _, _ := newTestService(repo, nil)

	if _, err := svc.MoveList(context.Background(), testAuth(), "a", 99); err != nil {
		t.Fatalf("MoveList: %v", err)
	}
	if repo.lists["a"].Order != 1 || repo.lists["b"].Order != 0 {
		t.Errorf("orders = a:%d b:%d, want a:1 b:0", repo.lists["a"].Order, repo.lists["b"].Order)
	}
}

func TestMoveListSequentialConflictingMoves(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "A", 0)
	repo.add("b", "board-1", "B", 1)
	repo.add("c", "board-1", "C", 2)
	repo.add("d", "board-1", "D", 3)
	svc, _, _ := newTestService(repo, nil)

	// Two clients drag different lists from the same starting layout;
	// the second drop lands on top of the first one's renumbering.
	if _, err := svc.MoveList(context.Background(), testAuth(), "d", 0); err != nil {
		t.Fatalf("first MoveList: %v", err)
	}
	if _, err := svc.MoveList(context.Background(), testAuth(), "a", 3); err != nil {
		t.Fatalf("second MoveList: %v", err)
	}

	lists, _ := repo.ListByBoard("board-1")
	for i, l := range lists {
		if l.Order != i {
			t.Errorf("list %s order = %d, want %d", l.ID, l.Order, i)
		}
	}
	if lists[0].ID != "d" || lists[3].ID != "a" {
		t.Errorf("later drop must win: got %s first and %s last", lists[0].ID, lists[3].ID)
	}
}

func TestMoveListNoOpWritesNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "A", 0)
	repo.add("b", "board-1", "B", 1)
	svc, auditSvc, reval := newTestService(repo, nil)

	list, err := svc.MoveList(context.Background(), testAuth(), "b", 1)
	if err != nil {
		t.Fatalf("MoveList: %v", err)
	}
	if list.ID != "b" {
		t.Errorf("expected the unchanged list back, got %s", list.ID)
	}
	if len(repo.batches) != 0 {
		t.Errorf("no-op move must not write, got %d batches", len(repo.batches))
	}
	if len(auditSvc.entries) != 0 || len(reval.stale) != 0 {
		t.Errorf("no-op move must not audit or invalidate")
	}
}

func TestMoveListBatchFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "A", 0)
	repo.add("b", "board-1", "B", 1)
	repo.failBatch = true
	svc, _, _ := newTestService(repo, nil)

	_, err := svc.MoveList(context.Background(), testAuth(), "a", 1)
	if err == nil || err.Error() != "Failed to reorder" {
		t.Fatalf("expected %q, got %v", "Failed to reorder", err)
	}
}

func TestDeleteList(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "Doomed", 0)
	svc, auditSvc, reval := newTestService(repo, nil)

	list, err := svc.DeleteList(context.Background(), testAuth(), "a")
	if err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if list.Title != "Doomed" {
		t.Errorf("expected the deleted list back, got %q", list.Title)
	}
	if _, ok := repo.lists["a"]; ok {
		t.Errorf("list still present after delete")
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != audit.ActionDelete {
		t.Errorf("expected one DELETE audit entry, got %v", auditSvc.entries)
	}
	if len(reval.stale) != 1 {
		t.Errorf("expected one invalidation, got %v", reval.stale)
	}
}

func TestUpdateListScopedToOrganization(t *testing.T) {
	repo := newFakeRepo()
	repo.boards["board-1"] = true
	repo.add("a", "board-1", "Private", 0)
	svc, _, _ := newTestService(repo, nil)

	outsider := &identity.Auth{UserID: "user-2", OrgID: "org-2"}
	_, err := svc.UpdateList(context.Background(), outsider, "a", "Renamed")
	var nf *result.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "List" {
		t.Fatalf("expected List not found for another org, got %v", err)
	}
	if repo.lists["a"].Title != "Private" {
		t.Errorf("title changed across orgs: %q", repo.lists["a"].Title)
	}
}
