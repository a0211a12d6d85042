package ledger

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Session is the scope over which "already marked" dedup applies. It lives in
// memory only and is reset by an explicit new-session action. The set is safe
// for the camera loop and concurrent manual entry.
type Session struct {
	marked cmap.ConcurrentMap[uint64, time.Time]
}

func shardID(key uint64) uint32 {
	return uint32(key) ^ uint32(key>>32)
}

func NewSession() *Session {
	return &Session{
		marked: cmap.NewWithCustomShardingFunction[uint64, time.Time](shardID),
	}
}

// TryMark atomically claims the id for this session. false means it was
// already marked.
func (s *Session) TryMark(id uint64) bool {
	return s.marked.SetIfAbsent(id, time.Now())
}

// Unmark releases a claim, used when the ledger write behind it failed.
func (s *Session) Unmark(id uint64) {
	s.marked.Remove(id)
}

func (s *Session) IsMarked(id uint64) bool {
	return s.marked.Has(id)
}

func (s *Session) Count() int {
	return s.marked.Count()
}

func (s *Session) Clear() {
	s.marked.Clear()
}
