package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"testing"

	"taskboard/internal/app/audit"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepo struct {
	cards       map[string]*Card
	listBoard   map[string]string
	org         string
	nextID      int
	batches     [][]OrderUpdate
	cloneSource map[string]string
	failBatch   bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cards:       make(map[string]*Card),
		listBoard:   make(map[string]string),
		org:         "org-1",
		cloneSource: make(map[string]string),
	}
}

func (f *fakeRepo) add(id, listID, title string, order int) *Card {
	c := &Card{ID: id, ListID: listID, Title: title, Order: order}
	f.cards[id] = c
	return c
}

func (f *fakeRepo) GetByID(id, orgID string) (*Card, error) {
	c, ok := f.cards[id]
	if !ok || orgID != f.org {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepo) ListByList(listID string) ([]*Card, error) {
	var out []*Card
	for _, c := range f.cards {
		if c.ListID == listID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeRepo) MaxOrder(listID string) (sql.NullInt64, error) {
	var max sql.NullInt64
	for _, c := range f.cards {
		if c.ListID == listID && (!max.Valid || int64(c.Order) > max.Int64) {
			max = sql.NullInt64{Int64: int64(c.Order), Valid: true}
		}
	}
	return max, nil
}

func (f *fakeRepo) GetListBoard(listID, orgID string) (string, error) {
	boardID, ok := f.listBoard[listID]
	if !ok || orgID != f.org {
		return "", gorm.ErrRecordNotFound
	}
	return boardID, nil
}

func (f *fakeRepo) Create(card *Card) error {
	if card.ID == "" {
		f.nextID++
		card.ID = fmt.Sprintf("card-%d", f.nextID)
	}
	copied := *card
	f.cards[card.ID] = &copied
	return nil
}

func (f *fakeRepo) Update(id, orgID string, updates map[string]interface{}) (*Card, error) {
	c, ok := f.cards[id]
	if !ok || orgID != f.org {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"]; ok {
		c.Title = v.(string)
	}
	if v, ok := updates["description"]; ok {
		desc := v.(string)
		c.Description = &desc
	}
	if v, ok := updates["due_date"]; ok {
		if v == nil {
			c.DueDate = nil
		}
	}
	return f.GetByID(id, orgID)
}

func (f *fakeRepo) CloneWithLabels(clone *Card, sourceCardID string) error {
	if err := f.Create(clone); err != nil {
		return err
	}
	f.cloneSource[clone.ID] = sourceCardID
	return nil
}

func (f *fakeRepo) BatchReorder(orgID string, items []OrderUpdate) error {
	if f.failBatch {
		return errors.New("connection reset")
	}
	for _, item := range items {
		c, ok := f.cards[item.ID]
		if !ok || orgID != f.org {
			return gorm.ErrRecordNotFound
		}
		c.Order = item.Order
		c.ListID = item.ListID
	}
	f.batches = append(f.batches, items)
	return nil
}

func (f *fakeRepo) Delete(id, orgID string) error {
	if _, ok := f.cards[id]; !ok || orgID != f.org {
		return gorm.ErrRecordNotFound
	}
	delete(f.cards, id)
	return nil
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

func newTestService(repo *fakeRepo) (Service, *fakeAudit, *fakeRevalidator) {
	auditSvc := &fakeAudit{}
	reval := &fakeRevalidator{}
	return NewService(repo, auditSvc, reval, zap.NewNop()), auditSvc, reval
}

func testAuth() *identity.Auth {
	return &identity.Auth{UserID: "user-1", OrgID: "org-1"}
}

func TestCreateCardAppendsAfterLastSibling(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "First", 1)
	repo.add("b", "list-1", "Second", 2)
	svc, auditSvc, reval := newTestService(repo)

	card, err := svc.CreateCard(context.Background(), testAuth(), "list-1", "Third")
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if card.Order != 3 {
		t.Errorf("order = %d, want 3", card.Order)
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != audit.ActionCreate {
		t.Errorf("expected one CREATE audit entry, got %v", auditSvc.entries)
	}
	if len(reval.stale) != 1 || reval.stale[0] != "board-1" {
		t.Errorf("expected board-1 marked stale, got %v", reval.stale)
	}
}

func TestCreateCardFirstInListStartsAtOne(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	svc, _, _ := newTestService(repo)

	card, err := svc.CreateCard(context.Background(), testAuth(), "list-1", "Only card")
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if card.Order != 1 {
		t.Errorf("order = %d, want 1", card.Order)
	}
}

func TestCreateCardValidatesTitle(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	svc, auditSvc, _ := newTestService(repo)

	for _, title := range []string{"", "ab"} {
		_, err := svc.CreateCard(context.Background(), testAuth(), "list-1", title)
		var ve *result.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("title %q: expected validation error, got %v", title, err)
		}
		if len(ve.Fields["title"]) == 0 {
			t.Errorf("title %q: expected a title field error", title)
		}
	}
	if len(repo.cards) != 0 {
		t.Errorf("invalid titles must not create cards, got %d", len(repo.cards))
	}
	if len(auditSvc.entries) != 0 {
		t.Errorf("invalid titles must not be audited, got %v", auditSvc.entries)
	}
}

func TestCreateCardUnknownList(t *testing.T) {
	repo := newFakeRepo()
	svc, _, _ := newTestService(repo)

	_, err := svc.CreateCard(context.Background(), testAuth(), "missing", "A card")
	var nf *result.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "List" {
		t.Fatalf("expected List not found, got %v", err)
	}
}

func TestCloneCardCopiesLabelsAndAppends(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	desc := "details"
	source := repo.add("a", "list-1", "Original", 1)
	source.Description = &desc
	repo.add("b", "list-1", "Other", 2)
	svc, auditSvc, _ := newTestService(repo)

	clone, err := svc.CloneCard(context.Background(), testAuth(), "a")
	if err != nil {
		t.Fatalf("CloneCard: %v", err)
	}
	if clone.Title != "Original (Clone)" {
		t.Errorf("title = %q, want %q", clone.Title, "Original (Clone)")
	}
	if clone.Order != 3 {
		t.Errorf("order = %d, want 3", clone.Order)
	}
	if clone.Description == nil || *clone.Description != desc {
		t.Errorf("description not carried over: %v", clone.Description)
	}
	if repo.cloneSource[clone.ID] != "a" {
		t.Errorf("labels not copied from source card")
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != audit.ActionCreate {
		t.Errorf("expected one CREATE audit entry, got %v", auditSvc.entries)
	}
}

func TestMoveCardWithinListRenumbers(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "A", 1)
	repo.add("b", "list-1", "B", 2)
	repo.add("c", "list-1", "C", 3)
	svc, auditSvc, reval := newTestService(repo)

	if _, err := svc.MoveCard(context.Background(), testAuth(), "c", "list-1", 0); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}

	wantOrders := map[string]int{"c": 0, "a": 1, "b": 2}
	for id, want := range wantOrders {
		if got := repo.cards[id].Order; got != want {
			t.Errorf("card %s order = %d, want %d", id, got, want)
		}
	}
	if len(auditSvc.entries) != 0 {
		t.Errorf("reorders must not be audited, got %v", auditSvc.entries)
	}
	if len(reval.stale) != 1 || reval.stale[0] != "board-1" {
		t.Errorf("expected board-1 marked stale, got %v", reval.stale)
	}
}

func TestMoveCardSequentialConflictingMoves(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "A", 1)
	repo.add("b", "list-1", "B", 2)
	repo.add("c", "list-1", "C", 3)
	repo.add("d", "list-1", "D", 4)
	svc, _, _ := newTestService(repo)

	// Two clients drag different cards from the same starting layout;
	// the second drop lands on top of the first one's renumbering.
	if _, err := svc.MoveCard(context.Background(), testAuth(), "d", "list-1", 0); err != nil {
		t.Fatalf("first MoveCard: %v", err)
	}
	if _, err := svc.MoveCard(context.Background(), testAuth(), "a", "list-1", 3); err != nil {
		t.Fatalf("second MoveCard: %v", err)
	}

	cards, _ := repo.ListByList("list-1")
	for i, c := range cards {
		if c.Order != i {
			t.Errorf("card %s order = %d, want %d", c.ID, c.Order, i)
		}
	}
	if cards[0].ID != "d" || cards[3].ID != "a" {
		t.Errorf("later drop must win: got %s first and %s last", cards[0].ID, cards[3].ID)
	}
}

func TestMoveCardClampsNegativeIndex(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "A", 1)
	repo.add("b", "list-1", "B", 2)
	repo.add("c", "list-1", "C", 3)
	svc, _, _ := newTestService(repo)

	if _, err := svc.MoveCard(context.Background(), testAuth(), "c", "list-1", -2); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}

	wantOrders := map[string]int{"c": 0, "a": 1, "b": 2}
	for id, want := range wantOrders {
		if got := repo.cards[id].Order; got != want {
			t.Errorf("card %s order = %d, want %d", id, got, want)
		}
	}
}

func TestMoveCardNoOpWritesNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "A", 1)
	repo.add("b", "list-1", "B", 2)
	svc, auditSvc, reval := newTestService(repo)

	card, err := svc.MoveCard(context.Background(), testAuth(), "b", "list-1", 1)
	if err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if card.ID != "b" {
		t.Errorf("expected the unchanged card back, got %s", card.ID)
	}
	if len(repo.batches) != 0 {
		t.Errorf("no-op move must not write, got %d batches", len(repo.batches))
	}
	if len(auditSvc.entries) != 0 || len(reval.stale) != 0 {
		t.Errorf("no-op move must not audit or invalidate")
	}
}

func TestMoveCardAcrossLists(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.listBoard["list-2"] = "board-1"
	repo.add("a", "list-1", "A", 1)
	repo.add("b", "list-1", "B", 2)
	repo.add("x", "list-2", "X", 1)
	svc, _, reval := newTestService(repo)

	moved, err := svc.MoveCard(context.Background(), testAuth(), "a", "list-2", 0)
	if err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if moved.ListID != "list-2" {
		t.Errorf("card list = %s, want list-2", moved.ListID)
	}

	// Both lists come out dense.
	if got := repo.cards["b"].Order; got != 0 {
		t.Errorf("source survivor order = %d, want 0", got)
	}
	if got := repo.cards["a"].Order; got != 0 {
		t.Errorf("moved card order = %d, want 0", got)
	}
	if got := repo.cards["x"].Order; got != 1 {
		t.Errorf("shifted card order = %d, want 1", got)
	}

	// Source and destination renumberings land in one batch.
	if len(repo.batches) != 1 {
		t.Fatalf("expected a single reorder batch, got %d", len(repo.batches))
	}
	if len(repo.batches[0]) != 3 {
		t.Errorf("batch covers %d cards, want 3", len(repo.batches[0]))
	}
	if len(reval.stale) != 1 {
		t.Errorf("expected one invalidation, got %v", reval.stale)
	}
}

func TestMoveCardRejectsListOnAnotherBoard(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.listBoard["list-9"] = "board-2"
	repo.add("a", "list-1", "A", 1)
	svc, _, _ := newTestService(repo)

	_, err := svc.MoveCard(context.Background(), testAuth(), "a", "list-9", 0)
	var nf *result.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "List" {
		t.Fatalf("expected List not found, got %v", err)
	}
	if len(repo.batches) != 0 {
		t.Errorf("cross-board move must not write")
	}
}

func TestMoveCardBatchFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "A", 1)
	repo.add("b", "list-1", "B", 2)
	repo.failBatch = true
	svc, _, reval := newTestService(repo)

	_, err := svc.MoveCard(context.Background(), testAuth(), "a", "list-1", 1)
	if err == nil || err.Error() != "Failed to reorder" {
		t.Fatalf("expected %q, got %v", "Failed to reorder", err)
	}
	if len(reval.stale) != 0 {
		t.Errorf("failed move must not invalidate")
	}
}

func TestDeleteCard(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "Doomed", 1)
	svc, auditSvc, reval := newTestService(repo)

	card, err := svc.DeleteCard(context.Background(), testAuth(), "a")
	if err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
	if card.Title != "Doomed" {
		t.Errorf("expected the deleted card back, got %q", card.Title)
	}
	if _, ok := repo.cards["a"]; ok {
		t.Errorf("card still present after delete")
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != audit.ActionDelete {
		t.Errorf("expected one DELETE audit entry, got %v", auditSvc.entries)
	}
	if len(reval.stale) != 1 {
		t.Errorf("expected one invalidation, got %v", reval.stale)
	}
}

func TestGetCardScopedToOrganization(t *testing.T) {
	repo := newFakeRepo()
	repo.listBoard["list-1"] = "board-1"
	repo.add("a", "list-1", "Private", 1)
	svc, _, _ := newTestService(repo)

	outsider := &identity.Auth{UserID: "user-2", OrgID: "org-2"}
	_, err := svc.GetCard(context.Background(), outsider, "a")
	var nf *result.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "Card" {
		t.Fatalf("expected Card not found for another org, got %v", err)
	}
}
