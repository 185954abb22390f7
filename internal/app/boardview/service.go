package boardview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/label"
	"taskboard/internal/app/list"
	"taskboard/internal/app/result"
	"taskboard/internal/providers/redis"
	"taskboard/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventBoardStale is published on the event bus whenever a board's
// cached view is invalidated. The websocket hub forwards it to clients
// as a hint to refetch; no board data travels with it.
const EventBoardStale = "board_stale"

type Service interface {
	GetFullBoard(ctx context.Context, auth *identity.Auth, boardID string) (*FullBoard, error)
	// BoardStale drops the cached view and signals connected clients.
	// It is called after every successful mutation touching the board.
	BoardStale(ctx context.Context, boardID string)
}

type service struct {
	boards      board.Repository
	lists       list.Repository
	cards       card.Repository
	labels      label.Repository
	redisP      *redis.RedisProvider
	eventBus    *utils.EventBus
	logger      *zap.SugaredLogger
	cachePrefix string
	cacheTTL    time.Duration
}

func NewService(
	boards board.Repository,
	lists list.Repository,
	cards card.Repository,
	labels label.Repository,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
	cacheTTL time.Duration,
) Service {
	return &service{
		boards:      boards,
		lists:       lists,
		cards:       cards,
		labels:      labels,
		redisP:      redisP,
		eventBus:    eventBus,
		logger:      logger.Sugar(),
		cachePrefix: "boardview",
		cacheTTL:    cacheTTL,
	}
}

func (s *service) cacheKey(boardID string) string {
	return fmt.Sprintf("%s:%s", s.cachePrefix, boardID)
}

func (s *service) GetFullBoard(ctx context.Context, auth *identity.Auth, boardID string) (*FullBoard, error) {
	// Org scoping happens before the cache is consulted so a cached
	// view can never leak across organizations.
	b, err := s.boards.GetByID(boardID, auth.OrgID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, result.NotFound("Board")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	if cached, err := s.redisP.Get(ctx, s.cacheKey(boardID)).Result(); err == nil && cached != "" {
		var view FullBoard
		if json.Unmarshal([]byte(cached), &view) == nil {
			return &view, nil
		}
	}

	lists, err := s.lists.ListByBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}

	view := &FullBoard{Board: b, Lists: make([]*ListWithCards, 0, len(lists))}
	for _, l := range lists {
		cards, err := s.cards.ListByList(l.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cards: %w", err)
		}

		lw := &ListWithCards{List: l, Cards: make([]*CardWithLabels, 0, len(cards))}
		for _, c := range cards {
			labels, err := s.labels.ListByCard(c.ID)
			if err != nil {
				s.logger.Warnw("Failed to load card labels", "card_id", c.ID, "error", err)
				labels = nil
			}
			lw.Cards = append(lw.Cards, &CardWithLabels{Card: c, Labels: labels})
		}
		view.Lists = append(view.Lists, lw)
	}

	if data, err := json.Marshal(view); err == nil {
		s.redisP.SetEX(ctx, s.cacheKey(boardID), data, s.cacheTTL)
	}
	return view, nil
}

func (s *service) BoardStale(ctx context.Context, boardID string) {
	if _, err := s.redisP.Del(context.Background(), s.cacheKey(boardID)).Result(); err != nil {
		s.logger.Warnw("Failed to invalidate board view cache", "board_id", boardID, "error", err)
	}
	s.eventBus.Publish(EventBoardStale, map[string]interface{}{
		"board_id":  boardID,
		"timestamp": time.Now().UTC().Unix(),
	})
}
