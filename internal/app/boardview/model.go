package boardview

import (
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/label"
	"taskboard/internal/app/list"
)

// FullBoard is the denormalized view the board page renders: lists in
// order, cards in order, labels attached to each card.
type FullBoard struct {
	Board *board.Board     `json:"board"`
	Lists []*ListWithCards `json:"lists"`
}

type ListWithCards struct {
	*list.List
	Cards []*CardWithLabels `json:"cards"`
}

type CardWithLabels struct {
	*card.Card
	Labels []*label.Label `json:"labels"`
}
