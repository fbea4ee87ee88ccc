package session

import (
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type SnapshotDTO struct {
	SessionId string     `json:"session_id"`
	Grid      mines.Grid `json:"grid"`
	Size      int        `json:"size"`
	MineCount int        `json:"mine_count"`
	Flags     int        `json:"flags"`
	Status    Status     `json:"status"`
	StartedAt int64      `json:"started_at"`
	EndedAt   *int64     `json:"ended_at,omitempty"`
}

func (s *Session) Snapshot() *SnapshotDTO {
	var endedAt *int64
	if s.endedAt != nil {
		e := s.endedAt.UnixMilli()
		endedAt = &e
	}
	return &SnapshotDTO{
		SessionId: s.id.String(),
		Grid:      s.board.PlayerGrid(),
		Size:      s.board.Size,
		MineCount: s.board.MineCount,
		Flags:     s.board.Flags(),
		Status:    s.Status(),
		StartedAt: s.startedAt.UnixMilli(),
		EndedAt:   endedAt,
	}
}
